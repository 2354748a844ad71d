// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"keebi-cli/internal/bridge"
	"keebi-cli/internal/host"

	"github.com/spf13/cobra"
	"mvdan.cc/sh/v3/interp"
)

func newFunctionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: "List the native functions available to scripts",
		Long: `List the native functions available to scripts.

Every function is a command. Results are written to standard output
without a trailing newline; capture them with $(...). Each function is
also reachable as keebi.<name>, which is required when the bare name is
a shell builtin (keebi.exec).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listFunctions(cmd)
			return nil
		},
	}
}

func listFunctions(cmd *cobra.Command) {
	// The registry is only inspected, so no simulator is ever built.
	reg := bridge.New(host.New(nil, nil), bridge.Options{}).Registry()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, TitleStyle.Render("Native functions"))
	fmt.Fprintln(out)
	for _, name := range reg.Names() {
		fn, _ := reg.Lookup(name)
		sig := fn.Signature()
		callAs := scriptName(name)
		fmt.Fprintf(out, "  %s\n", CmdStyle.Render(sig.Usage(callAs)))
		if sig.Doc != "" {
			fmt.Fprintf(out, "      %s\n", SubtitleStyle.Render(sig.Doc))
		}
		if callAs != name {
			fmt.Fprintf(out, "      %s\n", WarningStyle.Render(fmt.Sprintf("call it as %s: bare %q runs the shell builtin", callAs, name)))
		}
	}
}

// scriptName is the name a script must use to reach a native function.
func scriptName(name string) string {
	if interp.IsBuiltin(name) {
		return bridge.Namespace + "." + name
	}
	return name
}
