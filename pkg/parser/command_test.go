package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBridgeCommand(t *testing.T) {
	cases := []struct {
		input    string
		expected BridgeCommand
	}{
		{"bridge 100 USDC from lukso to sepolia", BridgeCommand{"100", "USDC", "lukso", "sepolia"}},
		{"1.5 LYXt FROM LUKSO TO Sepolia", BridgeCommand{"1.5", "LYXt", "lukso", "sepolia"}},
		{"  Bridge   0.25  WETH from sepolia   to lukso-testnet ", BridgeCommand{"0.25", "WETH", "sepolia", "lukso-testnet"}},
	}

	for _, tc := range cases {
		got, err := ParseBridgeCommand(tc.input)
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.expected, *got, tc.input)
	}
}

func TestParseBridgeCommandInvalid(t *testing.T) {
	for _, input := range []string{
		"",
		"bridge USDC from lukso to sepolia",
		"100 USDC to sepolia",
		"-1 USDC from lukso to sepolia",
	} {
		_, err := ParseBridgeCommand(input)
		assert.Error(t, err, input)
	}
}

func TestValidate(t *testing.T) {
	cmd := &BridgeCommand{Amount: "1", Token: "USDC", From: "lukso", To: "LUKSO"}
	assert.Error(t, cmd.Validate())

	cmd.To = "sepolia"
	assert.NoError(t, cmd.Validate())

	cmd.Token = ""
	assert.Error(t, cmd.Validate())
}
