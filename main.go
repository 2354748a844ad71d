// SPDX-License-Identifier: MPL-2.0

package main

import "keebi-cli/cmd/keebi"

func main() {
	cmd.Execute()
}
