package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const LogMsgIncorrectArgsNumber = "incorrect number of arguments"

var ErrInvalidArgument = errors.New("invalid argument")

func parseCommandVar(arg string) (key, value string, err error) {
	kv := strings.SplitN(arg, "=", 2)
	if len(kv) != 2 {
		return "", "", ErrInvalidArgument
	}
	key = strings.TrimSpace(kv[0])
	value = strings.TrimSpace(kv[1])
	if len(key) == 0 || len(value) == 0 {
		return "", "", ErrInvalidArgument
	}
	return strings.ToLower(key), value, nil
}

func errorUnknownCommandParam(name string) error {
	return fmt.Errorf("unknown command param: %s", name)
}

// printout renders command results as indented JSON on stdout.
func printout(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// chainSelector carries the chain/network/segwit triple shared by most
// commands, with the usual defaults.
type chainSelector struct {
	chain   string
	network string
	segWit  string
}

func defaultSelector() chainSelector {
	return chainSelector{chain: "BTC", network: "MAINNET", segWit: "NONE"}
}

// apply consumes a parsed key=value pair, reporting whether it was one of
// the selector keys.
func (sel *chainSelector) apply(key, value string) bool {
	switch key {
	case "chain":
		sel.chain = strings.ToUpper(value)
	case "network":
		sel.network = strings.ToUpper(value)
	case "segwit":
		sel.segWit = strings.ToUpper(value)
	default:
		return false
	}
	return true
}
