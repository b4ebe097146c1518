// Package console is the interactive terminal front end. It parses
// commands, completes node keys from the current tree snapshot, and
// delegates every operation to the orchestrator and remote client.
package console

import (
	"fmt"
	"strings"

	"github.com/c-bata/go-prompt"
	"go.uber.org/zap"

	"home-console/internal/api"
	"home-console/internal/session"
	"home-console/internal/syncer"
	"home-console/internal/tree"
)

// Console drives one interactive session.
type Console struct {
	orch    *syncer.Orchestrator
	api     *api.Client
	session *session.Store
	logger  *zap.Logger
}

// New creates a console over an orchestrator and its remote client.
func New(orch *syncer.Orchestrator, client *api.Client, sess *session.Store, logger *zap.Logger) *Console {
	return &Console{orch: orch, api: client, session: sess, logger: logger}
}

var commands = []prompt.Suggest{
	{Text: "load", Description: "Load the house/room/device tree"},
	{Text: "refresh", Description: "Drop caches and reload from the backend"},
	{Text: "tree", Description: "Print the current tree"},
	{Text: "select", Description: "Select a node: select <key>"},
	{Text: "show", Description: "Show the selected node"},
	{Text: "house", Description: "house add|edit|rm ..."},
	{Text: "room", Description: "room add|edit|rm ..."},
	{Text: "device", Description: "device add|edit|rm ..."},
	{Text: "toggle", Description: "Toggle a device: toggle <device-key> [on|off]"},
	{Text: "control", Description: "Send a state document: control <deviceId> <json>"},
	{Text: "member", Description: "Add a house member: member <houseId> <userId> [role]"},
	{Text: "profile", Description: "Show the current user"},
	{Text: "login", Description: "login <email> <password>"},
	{Text: "logout", Description: "Forget the session token"},
	{Text: "help", Description: "List commands"},
	{Text: "exit", Description: "Quit"},
}

// Run blocks until the user exits.
func (c *Console) Run() {
	fmt.Println("home-console — type 'help' for commands, 'exit' to quit")
	p := prompt.New(
		c.execute,
		c.complete,
		prompt.OptionPrefix("> "),
		prompt.OptionTitle("home-console"),
		prompt.OptionSetExitCheckerOnInput(func(in string, breakline bool) bool {
			return breakline && strings.TrimSpace(in) == "exit"
		}),
	)
	p.Run()
}

func (c *Console) complete(d prompt.Document) []prompt.Suggest {
	text := d.TextBeforeCursor()
	fields := strings.Fields(text)

	if len(fields) == 0 || (len(fields) == 1 && !strings.HasSuffix(text, " ")) {
		return prompt.FilterHasPrefix(commands, d.GetWordBeforeCursor(), true)
	}

	switch fields[0] {
	case "select":
		return prompt.FilterHasPrefix(c.nodeKeySuggestions(""), d.GetWordBeforeCursor(), true)
	case "toggle":
		return prompt.FilterHasPrefix(c.nodeKeySuggestions("device-"), d.GetWordBeforeCursor(), true)
	}
	return nil
}

// nodeKeySuggestions lists keys from the current snapshot, optionally
// restricted to a key prefix (e.g. only device nodes).
func (c *Console) nodeKeySuggestions(prefix string) []prompt.Suggest {
	var suggests []prompt.Suggest
	tree.Walk(c.orch.Tree(), func(n *tree.Node) bool {
		if prefix == "" || strings.HasPrefix(n.Key, prefix) {
			suggests = append(suggests, prompt.Suggest{Text: n.Key, Description: n.Title})
		}
		return true
	})
	return suggests
}

func (c *Console) execute(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	if err := c.dispatch(fields[0], fields[1:]); err != nil {
		fmt.Println("error:", err)
	}
}

func printTree(nodes []*tree.Node, indent string) {
	for _, n := range nodes {
		switch n.Kind {
		case tree.KindDevice:
			status := "off"
			if n.IsOn {
				status = "on"
			}
			if n.Loading {
				status += ", pending"
			}
			fmt.Printf("%s%s  %s [%s]\n", indent, n.Key, n.Title, status)
		default:
			fmt.Printf("%s%s  %s\n", indent, n.Key, n.Title)
		}
		printTree(n.Children, indent+"  ")
	}
}
