package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"home-console/internal/api"
	"home-console/internal/entity"
	"home-console/internal/tree"
)

func (c *Console) dispatch(cmd string, args []string) error {
	ctx := context.Background()

	switch cmd {
	case "help":
		for _, s := range commands {
			fmt.Printf("  %-8s %s\n", s.Text, s.Description)
		}
		return nil

	case "load":
		if err := c.orch.LoadAll(ctx); err != nil {
			return err
		}
		fmt.Printf("loaded (%s)\n", c.orch.Phase())
		return nil

	case "refresh":
		if err := c.orch.Refresh(ctx); err != nil {
			return err
		}
		fmt.Printf("refreshed (%s)\n", c.orch.Phase())
		return nil

	case "tree":
		snapshot := c.orch.Tree()
		if len(snapshot) == 0 {
			fmt.Printf("tree is empty (%s)\n", c.orch.Phase())
			return nil
		}
		printTree(snapshot, "")
		return nil

	case "select":
		if len(args) != 1 {
			return fmt.Errorf("usage: select <key>")
		}
		if !c.orch.Select(args[0]) {
			return fmt.Errorf("no node %q in the current tree", args[0])
		}
		return nil

	case "show":
		node, ok := c.orch.Selected()
		if !ok {
			return fmt.Errorf("nothing selected")
		}
		fmt.Printf("%s (%s): %s\n", node.Key, node.Kind, node.Title)
		if device, ok := node.Device(); ok {
			fmt.Printf("  type: %s  on: %v  state: %v\n", device.Type, node.IsOn, device.State)
		}
		return nil

	case "house":
		return c.houseCommand(ctx, args)
	case "room":
		return c.roomCommand(ctx, args)
	case "device":
		return c.deviceCommand(ctx, args)

	case "toggle":
		return c.toggleCommand(ctx, args)

	case "control":
		if len(args) < 2 {
			return fmt.Errorf("usage: control <deviceId> <json>")
		}
		deviceID, err := parseID(args[0])
		if err != nil {
			return err
		}
		state, err := entity.ParseDocument(strings.Join(args[1:], " "))
		if err != nil {
			return api.ValidationError(err)
		}
		return c.orch.SetDeviceState(ctx, deviceID, state)

	case "member":
		if len(args) < 2 {
			return fmt.Errorf("usage: member <houseId> <userId> [MEMBER|ADMIN]")
		}
		houseID, err := parseID(args[0])
		if err != nil {
			return err
		}
		userID, err := parseID(args[1])
		if err != nil {
			return err
		}
		role := entity.RoleMember
		if len(args) > 2 {
			role = entity.MemberRole(strings.ToUpper(args[2]))
		}
		return c.orch.AddHouseMember(ctx, entity.MemberInput{HouseID: houseID, UserID: userID, Role: role})

	case "profile":
		profile, err := c.api.Profile(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s>\n", profile.UserName, profile.Email)
		return nil

	case "login":
		if len(args) != 2 {
			return fmt.Errorf("usage: login <email> <password>")
		}
		token, err := c.api.Login(ctx, entity.LoginInput{Email: args[0], Password: args[1]})
		if err != nil {
			return err
		}
		c.session.SetToken(token)
		fmt.Println("logged in")
		return nil

	case "logout":
		c.session.Clear()
		fmt.Println("logged out")
		return nil

	case "exit":
		return nil

	default:
		return fmt.Errorf("unknown command %q, try 'help'", cmd)
	}
}

func (c *Console) houseCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: house add|edit|rm ...")
	}
	switch args[0] {
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("usage: house add <name> [address]")
		}
		input := entity.HouseInput{Name: args[1]}
		if len(args) > 2 {
			input.Address = strings.Join(args[2:], " ")
		}
		house, err := c.orch.CreateHouse(ctx, input)
		if err != nil {
			return err
		}
		fmt.Println("created", tree.HouseKey(house.ID))
		return nil
	case "edit":
		if len(args) < 3 {
			return fmt.Errorf("usage: house edit <houseId> <name> [address]")
		}
		houseID, err := parseID(args[1])
		if err != nil {
			return err
		}
		input := entity.HouseInput{Name: args[2]}
		if len(args) > 3 {
			input.Address = strings.Join(args[3:], " ")
		}
		_, err = c.orch.UpdateHouse(ctx, houseID, input)
		return err
	case "rm":
		if len(args) != 2 {
			return fmt.Errorf("usage: house rm <houseId>")
		}
		houseID, err := parseID(args[1])
		if err != nil {
			return err
		}
		return c.orch.DeleteHouse(ctx, houseID)
	default:
		return fmt.Errorf("unknown house subcommand %q", args[0])
	}
}

func (c *Console) roomCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: room add|edit|rm ...")
	}
	switch args[0] {
	case "add":
		if len(args) < 3 {
			return fmt.Errorf("usage: room add <houseId> <name>")
		}
		houseID, err := parseID(args[1])
		if err != nil {
			return err
		}
		room, err := c.orch.CreateRoom(ctx, houseID, entity.RoomInput{Name: strings.Join(args[2:], " ")})
		if err != nil {
			return err
		}
		fmt.Println("created", tree.RoomKey(room.ID))
		return nil
	case "edit":
		if len(args) < 3 {
			return fmt.Errorf("usage: room edit <roomId> <name>")
		}
		roomID, err := parseID(args[1])
		if err != nil {
			return err
		}
		_, err = c.orch.UpdateRoom(ctx, roomID, entity.RoomInput{Name: strings.Join(args[2:], " ")})
		return err
	case "rm":
		if len(args) != 2 {
			return fmt.Errorf("usage: room rm <roomId>")
		}
		roomID, err := parseID(args[1])
		if err != nil {
			return err
		}
		return c.orch.DeleteRoom(ctx, roomID)
	default:
		return fmt.Errorf("unknown room subcommand %q", args[0])
	}
}

func (c *Console) deviceCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: device add|edit|rm ...")
	}
	switch args[0] {
	case "add":
		if len(args) < 4 {
			return fmt.Errorf("usage: device add <roomId> <name> <type> [propertiesJson]")
		}
		roomID, err := parseID(args[1])
		if err != nil {
			return err
		}
		deviceType := entity.DeviceType(strings.ToUpper(args[3]))
		if !deviceType.Valid() {
			return api.ValidationError(fmt.Errorf("unknown device type %q", args[3]))
		}
		properties := entity.Document{}
		if len(args) > 4 {
			properties, err = entity.ParseDocument(strings.Join(args[4:], " "))
			if err != nil {
				return api.ValidationError(err)
			}
		}
		device, err := c.orch.CreateDevice(ctx, entity.DeviceInput{
			RoomID:     roomID,
			Name:       args[2],
			Type:       deviceType,
			Properties: properties,
		})
		if err != nil {
			return err
		}
		fmt.Println("created", tree.DeviceKey(device.ID))
		return nil
	case "edit":
		if len(args) < 5 {
			return fmt.Errorf("usage: device edit <deviceId> <roomId> <name> <type>")
		}
		deviceID, err := parseID(args[1])
		if err != nil {
			return err
		}
		roomID, err := parseID(args[2])
		if err != nil {
			return err
		}
		deviceType := entity.DeviceType(strings.ToUpper(args[4]))
		if !deviceType.Valid() {
			return api.ValidationError(fmt.Errorf("unknown device type %q", args[4]))
		}
		_, err = c.orch.UpdateDevice(ctx, deviceID, roomID, entity.DeviceInput{
			Name: args[3],
			Type: deviceType,
		})
		return err
	case "rm":
		if len(args) != 3 {
			return fmt.Errorf("usage: device rm <deviceId> <roomId>")
		}
		deviceID, err := parseID(args[1])
		if err != nil {
			return err
		}
		roomID, err := parseID(args[2])
		if err != nil {
			return err
		}
		return c.orch.DeleteDevice(ctx, deviceID, roomID)
	default:
		return fmt.Errorf("unknown device subcommand %q", args[0])
	}
}

// toggleCommand flips a device, or forces it on/off when told to.
func (c *Console) toggleCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: toggle <device-key|deviceId> [on|off]")
	}

	key := args[0]
	if !strings.HasPrefix(key, "device-") {
		key = "device-" + key
	}
	node, ok := tree.Find(c.orch.Tree(), key)
	if !ok {
		return fmt.Errorf("no device %q in the current tree", args[0])
	}
	device, ok := node.Device()
	if !ok {
		return fmt.Errorf("%q is not a device", key)
	}

	target := !node.IsOn
	if len(args) > 1 {
		switch args[1] {
		case "on":
			target = true
		case "off":
			target = false
		default:
			return fmt.Errorf("usage: toggle <device-key> [on|off]")
		}
	}

	if err := c.orch.SetDeviceState(ctx, device.ID, entity.Document{"isOn": target}); err != nil {
		return err
	}
	fmt.Printf("%s -> %v\n", key, target)
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
