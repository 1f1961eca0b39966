package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	cryst "github.com/rmera/gocryst"
	"github.com/spf13/cobra"
)

var (
	title  string
	format string // overrides the format implied by a file name
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "struconv [input] [output]",
		Short: "convert between crystal structure file formats",
		Long: "struconv converts crystal structure files between the PDFfit (stru)\n" +
			"and xyz formats. The formats are taken from the file extensions; a .gz\n" +
			"or .zst suffix reads or writes the file compressed.",
		Args: cobra.ExactArgs(2),
		RunE: convert,
	}
	rootCmd.Flags().StringVar(&title, "title", "", "replace the structure title")
	rootCmd.Flags().StringVar(&format, "to", "", "output format, overriding the output extension")

	infoCmd := &cobra.Command{
		Use:   "info [input]",
		Short: "print the cell and contents of a structure file",
		Args:  cobra.ExactArgs(1),
		RunE:  info,
	}

	rootCmd.AddCommand(infoCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func convert(cmd *cobra.Command, args []string) error {
	S, err := readStructure(args[0])
	if err != nil {
		return err
	}
	if title != "" {
		S.Title = title
	}
	out := format
	if out == "" {
		out = cryst.FormatName(args[1])
	}
	switch out {
	case "stru":
		return cryst.StruFileWrite(args[1], S)
	case "xyz":
		return cryst.XYZFileWrite(args[1], S)
	}
	return fmt.Errorf("unsupported output format %q", out)
}

func readStructure(name string) (*cryst.Structure, error) {
	switch f := cryst.FormatName(name); f {
	case "stru":
		return cryst.StruFileRead(name)
	case "xyz":
		return cryst.XYZFileRead(name)
	}
	return nil, fmt.Errorf("unsupported input format %q", cryst.FormatName(name))
}

func info(cmd *cobra.Command, args []string) error {
	S, err := readStructure(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("title: %s\n", S.Title)
	fmt.Printf("atoms: %d\n", S.Len())
	lat := S.Lattice()
	if lat == nil {
		fmt.Println("no cell: absolute Cartesian coordinates")
	} else {
		fmt.Printf("cell:  a=%.6f b=%.6f c=%.6f alpha=%.4f beta=%.4f gamma=%.4f\n",
			lat.A(), lat.B(), lat.C(), lat.Alpha(), lat.Beta(), lat.Gamma())
		fmt.Printf("volume: %.6f\n", lat.Volume())
		R, err := lat.Reciprocal()
		if err != nil {
			return err
		}
		fmt.Printf("reciprocal: a*=%.6f b*=%.6f c*=%.6f\n", R.A(), R.B(), R.C())
	}
	//composition and displacement summary
	counts := map[string]int{}
	order := []string{}
	naniso := 0
	for _, at := range S.Atoms {
		if _, seen := counts[at.Symbol]; !seen {
			order = append(order, at.Symbol)
		}
		counts[at.Symbol]++
		if at.Anisotropy() {
			naniso++
		}
	}
	fmt.Printf("anisotropic atoms: %d of %d\n", naniso, S.Len())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ELEMENT\tCOUNT\t<UISO>")
	for _, el := range order {
		mean := 0.0
		for _, at := range S.Atoms {
			if at.Symbol == el {
				mean += at.Uisoequiv()
			}
		}
		mean /= float64(counts[el])
		fmt.Fprintf(w, "%s\t%d\t%.6f\n", strings.ToUpper(el), counts[el], mean)
	}
	return w.Flush()
}
