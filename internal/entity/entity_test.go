package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument(`{"brightness": 70, "color": "warm"}`)
	require.NoError(t, err)
	assert.Equal(t, float64(70), doc["brightness"])
	assert.Equal(t, "warm", doc["color"])
}

func TestParseDocumentEmpty(t *testing.T) {
	for _, text := range []string{"", "   ", "\n"} {
		doc, err := ParseDocument(text)
		require.NoError(t, err)
		assert.Empty(t, doc)
	}
}

func TestParseDocumentRejectsNonObjects(t *testing.T) {
	for _, text := range []string{"[1,2]", `"string"`, "42", "{broken"} {
		_, err := ParseDocument(text)
		assert.Error(t, err, "%q is not a JSON object", text)
	}
}

func TestDeviceTypeValid(t *testing.T) {
	for _, dt := range KnownDeviceTypes {
		assert.True(t, dt.Valid())
	}
	assert.False(t, DeviceType("TOASTER").Valid())
	assert.False(t, DeviceType("light").Valid(), "types are case-sensitive")
}

func TestDeviceDecodesUntypedIsOn(t *testing.T) {
	cases := []struct {
		body string
		want any
	}{
		{`{"id": 1, "isOn": true}`, true},
		{`{"id": 1, "isOn": "true"}`, "true"},
		{`{"id": 1, "isOn": 1}`, float64(1)},
		{`{"id": 1}`, nil},
	}
	for _, tc := range cases {
		var device Device
		require.NoError(t, json.Unmarshal([]byte(tc.body), &device))
		assert.Equal(t, tc.want, device.IsOn, "body %s", tc.body)
	}
}
