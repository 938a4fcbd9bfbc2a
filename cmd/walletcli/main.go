package main

import "github.com/walletkit/wallet-core/cmd/walletcli/cmd"

func main() {
	cmd.Execute()
}
