package options

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/agenda/pkg/printers"
)

// OutputOptions selects text, JSON or YAML output.
type OutputOptions struct {
	Output string
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().StringVarP(&po.Output, "output", "o", "",
		"Output format. One of 'json' or 'yaml'. Defaults to text.")
}

// Format validates the flag.
func (o *OutputOptions) Format() (printers.Format, error) {
	return printers.ParseFormat(o.Output)
}

// HandleError prints err as a JSON object when JSON output was requested,
// so scripts always get a parseable answer.
func (o *OutputOptions) HandleError(err error) error {
	if f, _ := o.Format(); f == printers.FormatJSON && err != nil {
		out := map[string]string{
			"error": err.Error(),
		}
		b, err := json.Marshal(out)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(color.Output, string(b))
		return nil
	}
	return err
}
