// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package main

import "github.com/bep/ciff/cmd/ciff/cmd"

func main() {
	cmd.Execute()
}
