package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/smartcube"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <facelets>",
	Short: "Decode a facelet string into a piece state",
	Long: `Decode a 54-character Kociemba facelet string (faces U R F D L B) into
edge, corner and center permutation/orientation, printed as JSON.

With --validate the state is also checked for solvability.`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode a piece state as a facelet string",
	Long: `Encode a piece state, given as JSON with --state or on stdin, into a
Kociemba facelet string.`,
	Args: cobra.NoArgs,
	RunE: runEncode,
}

var applyCmd = &cobra.Command{
	Use:   "apply <moves>",
	Short: "Apply moves to a solved cube",
	Long: `Apply a move sequence such as "R U R' U'" to a solved cube and print the
resulting facelet string, an unfolded net, the piece state and the
layer-by-layer phase.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runApply,
}

var (
	validateState bool
	stateJSON     string
)

func init() {
	decodeCmd.Flags().BoolVar(&validateState, "validate", false, "Check that the state is solvable")
	encodeCmd.Flags().StringVar(&stateJSON, "state", "", "State JSON (default: read stdin)")
	rootCmd.AddCommand(decodeCmd, encodeCmd, applyCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	s, err := smartcube.Decode(strings.TrimSpace(args[0]))
	if err != nil {
		return err
	}
	if validateState {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return printJSON(cmd.OutOrStdout(), s)
}

func runEncode(cmd *cobra.Command, _ []string) error {
	data := []byte(stateJSON)
	if stateJSON == "" {
		in := cmd.InOrStdin()
		if in == os.Stdin {
			if fi, err := os.Stdin.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
				return fmt.Errorf("no state given: use --state or pipe JSON on stdin")
			}
		}
		var err error
		if data, err = io.ReadAll(in); err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
	}

	var s smartcube.State
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: state JSON: %v", smartcube.ErrMalformedInput, err)
	}
	facelets, err := smartcube.Encode(s)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), facelets)
	return nil
}

func runApply(cmd *cobra.Command, args []string) error {
	moves, err := smartcube.ParseMoves(strings.Join(args, " "))
	if err != nil {
		return err
	}

	cube := smartcube.NewCube()
	cube.Apply(moves...)
	facelets := cube.FaceletString()
	s, err := smartcube.Decode(facelets)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Moves:    %s\n", smartcube.FormatMoves(moves))
	fmt.Fprintf(out, "Facelets: %s\n", facelets)
	fmt.Fprintf(out, "Phase:    %s\n\n", cube.Phase().DisplayName())
	fmt.Fprintln(out, cube.String())
	return printJSON(out, s)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
