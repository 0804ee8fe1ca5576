package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"pedtriage/internal/engine"
	"pedtriage/internal/model"
	"pedtriage/internal/protocol"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var (
	packPath   string
	doseOption string
)

var rootCmd = &cobra.Command{
	Use:   "protocheck",
	Short: "Inspect and validate triage protocol packs",
	Long: `protocheck loads a protocol content pack, runs the same validation the
server runs at startup, and answers quick questions about its contents.

Without --pack the embedded default pack is used.`,
	SilenceUsage: true,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a pack and list every issue found",
	RunE:  runValidate,
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the pack contents at a glance",
	RunE:  runSummary,
}

var doseCmd = &cobra.Command{
	Use:   "dose <drug-id> <weight-kg>",
	Short: "Compute a dose the way the engine would",
	Args:  cobra.ExactArgs(2),
	RunE:  runDose,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&packPath, "pack", "", "path to a pack file (default: embedded pack)")
	doseCmd.Flags().StringVar(&doseOption, "option", "", "dose option key for drugs with variants")
	rootCmd.AddCommand(validateCmd, summaryCmd, doseCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadPack() (*protocol.Pack, error) {
	if packPath == "" {
		return protocol.Default()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return protocol.FromSource(ctx, protocol.FileSource{Path: packPath})
}

func runValidate(cmd *cobra.Command, args []string) error {
	pack, err := loadPack()
	if err != nil {
		var verr *protocol.ValidationError
		if errors.As(err, &verr) {
			// One issue per line beats the joined Error() string here.
			fmt.Fprintf(os.Stderr, "pack is invalid, %d issue(s):\n", len(verr.Issues))
			for _, issue := range verr.Issues {
				fmt.Fprintf(os.Stderr, "  %s\n", issue)
			}
			return fmt.Errorf("validation failed")
		}
		return err
	}
	fmt.Printf("pack OK: %s v%s\n", pack.Name, pack.Version)
	fmt.Printf("%d critical questions, %d pathways, %d phases, %d drugs, %d differentials\n",
		len(pack.Critical), len(pack.Pathways), len(pack.Phases), len(pack.Drugs), len(pack.Differentials))
	return nil
}

func runSummary(cmd *cobra.Command, args []string) error {
	pack, err := loadPack()
	if err != nil {
		return err
	}

	fmt.Printf("%s v%s\n\n", pack.Name, pack.Version)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "PATHWAY\tQUESTIONS")
	fmt.Fprintf(w, "(critical)\t%d\n", len(pack.Critical))
	for _, o := range pack.Selector.Options {
		fmt.Fprintf(w, "%s\t%d\n", o.Value, len(pack.PathwayQuestions(model.Pathway(o.Value))))
	}
	w.Flush()

	fmt.Fprintln(w, "\nPHASE\tFIELDS\tCHECKS\tVITALS")
	for _, ph := range pack.Phases {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", ph.Phase, len(ph.Fields), len(ph.Checks), len(ph.Vitals))
	}
	w.Flush()

	fmt.Fprintln(w, "\nDRUG\tDOSE\tMAX\tROUTE\tOPTIONS")
	for _, d := range pack.Drugs {
		fmt.Fprintf(w, "%s\t%g %s/kg\t%g %s\t%s\t%d\n",
			d.ID, d.PerKg, d.DoseUnit, d.MaxDose, d.DoseUnit, d.Route, len(d.Options))
	}
	w.Flush()

	fmt.Printf("\n%d differentials, bolus cap %g mL/kg\n", len(pack.Differentials), pack.Bolus.CapPerKg)
	return nil
}

func runDose(cmd *cobra.Command, args []string) error {
	pack, err := loadPack()
	if err != nil {
		return err
	}
	weight, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("weight %q is not a number", args[1])
	}

	dose, err := engine.ComputeDose(pack, args[0], weight, doseOption)
	if err != nil {
		return err
	}

	name := dose.DrugName
	if dose.Option != "" {
		name = fmt.Sprintf("%s [%s]", name, dose.Option)
	}
	fmt.Printf("%s at %g kg: %g %s", name, dose.WeightKg, dose.Amount, dose.Unit)
	if dose.VolumeML > 0 {
		fmt.Printf(" = %g mL of %s", dose.VolumeML, dose.Concentration)
	}
	fmt.Printf(", %s\n", dose.Route)
	if len(dose.Monitoring) > 0 {
		fmt.Printf("monitor: %s\n", strings.Join(dose.Monitoring, ", "))
	}
	if dose.ReassessAfterSec > 0 {
		fmt.Printf("reassess after %d s\n", dose.ReassessAfterSec)
	}
	return nil
}
