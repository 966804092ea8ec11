package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// textWidth is the column at which text output wraps free text.
const textWidth = 78

// emit writes v to the command's output in the selected format. text renders
// the human form and is only called for --format text.
func emit(cmd *cobra.Command, v any, text func(w io.Writer)) {
	if err := render(cmd.OutOrStdout(), formatFlag, v, text); err != nil {
		exitErr("output", err)
	}
}

func render(w io.Writer, format string, v any, text func(w io.Writer)) error {
	switch format {
	case "json", "":
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		return writeYAML(w, v)
	case "text":
		text(w)
		return nil
	}
	return fmt.Errorf("unknown format %q (want json, yaml or text)", format)
}

// writeYAML goes through JSON so field names and order match the JSON
// output.
func writeYAML(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return err
	}
	blockStyle(&doc)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	return enc.Close()
}

// blockStyle clears the flow and quoting styles a JSON document parses with.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
