package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/obsgate/obsgate/internal/gate"
	"github.com/obsgate/obsgate/internal/mode"
	"github.com/obsgate/obsgate/internal/registry"
	"github.com/obsgate/obsgate/internal/tools"
)

var opsMode string

func init() {
	rootCmd.AddCommand(opsCmd)
	opsCmd.Flags().StringVar(&opsMode, "mode", "", "Mode to evaluate against (default read-only)")
}

var opsCmd = &cobra.Command{
	Use:   "ops",
	Short: "List the operation catalog",
	Long:  "Prints every operation with its class, destructiveness, and whether the\ngiven mode permits it. No backend connection is made.",
	RunE:  runOps,
}

func runOps(cmd *cobra.Command, args []string) error {
	reg, err := tools.Catalog(nil)
	if err != nil {
		return fmt.Errorf("build catalog: %w", err)
	}
	m := mode.Resolve(opsMode)
	g := gate.New(reg, m)

	fmt.Printf("Mode: %s\n\n", m)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "OPERATION\tCLASS\tDESTRUCTIVENESS\tPERMITTED")
	for _, d := range reg.All() {
		dest := "-"
		if d.Class == registry.ClassWrite {
			dest = string(d.Destructiveness)
		}
		permitted := "no"
		if g.Permitted(d.Name) {
			permitted = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Name, d.Class, dest, permitted)
	}
	return w.Flush()
}
