package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/roelvdberg/rekenblad/loader"
	"github.com/roelvdberg/rekenblad/schema"
)

type InitCmd struct {
	Template string `help:"Built-in template id (rittenregistratie or factuur)." arg:"" enum:"rittenregistratie,factuur" default:"rittenregistratie"`
	Out      string `help:"Output document path." arg:""`
	Name     string `help:"Document display name." default:""`
	Rows     int    `help:"Number of empty rows to pre-create." default:"0"`
}

func (cmd *InitCmd) Run(ctx *kong.Context, globals *Globals) error {
	var tpl *schema.Template
	switch cmd.Template {
	case "factuur":
		tpl = schema.DefaultInvoice()
	default:
		tpl = schema.DefaultTripLog()
	}

	if _, err := os.Stat(cmd.Out); err == nil {
		confirmed, err := promptYesNo(ctx, fmt.Sprintf("File %q exists. Overwrite?", cmd.Out))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !confirmed {
			printInfof(ctx.Stdout, "Init cancelled")
			return nil
		}
	}

	name := cmd.Name
	if name == "" {
		name = tpl.Name
	}

	doc := schema.NewDocument(fmt.Sprintf("%s-%d", tpl.ID, time.Now().Unix()), tpl)
	doc.Meta.Name = name
	doc.Meta.CreatedAt = time.Now()

	for i := 0; i < cmd.Rows; i++ {
		doc.AppendRow(schema.Row{})
	}

	if err := loader.SaveDocument(cmd.Out, doc); err != nil {
		return err
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Created %s document at %s",
		tpl.Name, pathStyle.Render(cmd.Out)))

	return nil
}
