package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// BridgeCommand is a parsed "bridge" command line
type BridgeCommand struct {
	Amount string
	Token  string
	From   string
	To     string
}

var bridgePattern = regexp.MustCompile(`^(\d+\.?\d*)\s+([A-Za-z0-9.]+)\s+(?i:from)\s+([A-Za-z0-9_-]+)\s+(?i:to)\s+([A-Za-z0-9_-]+)$`)

// ParseBridgeCommand parses a natural language bridge command
// Examples:
//   - "bridge 100 USDC from lukso to sepolia"
//   - "1.5 LYX from lukso to sepolia"
func ParseBridgeCommand(command string) (*BridgeCommand, error) {
	command = strings.Join(strings.Fields(command), " ")

	// Remove the word "bridge" if present at the beginning
	if len(command) > 7 && strings.EqualFold(command[:7], "bridge ") {
		command = command[7:]
	}

	matches := bridgePattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid bridge command format. Expected: '<amount> <token> from <network> to <network>' (e.g., '100 USDC from lukso to sepolia')")
	}

	return &BridgeCommand{
		Amount: matches[1],
		Token:  NormalizeTokenSymbol(matches[2]),
		From:   strings.ToLower(matches[3]),
		To:     strings.ToLower(matches[4]),
	}, nil
}

// Validate checks that a bridge command has all required fields
func (c *BridgeCommand) Validate() error {
	if c.Amount == "" {
		return fmt.Errorf("amount is required")
	}
	if c.Token == "" {
		return fmt.Errorf("token is required")
	}
	if c.From == "" {
		return fmt.Errorf("source network is required")
	}
	if c.To == "" {
		return fmt.Errorf("destination network is required")
	}
	if strings.EqualFold(c.From, c.To) {
		return fmt.Errorf("source and destination networks should not be the same")
	}
	return nil
}

// NormalizeTokenSymbol trims a token symbol. Symbols keep their case because
// testnet assets such as LYXt are mixed case.
func NormalizeTokenSymbol(symbol string) string {
	return strings.TrimSpace(symbol)
}
