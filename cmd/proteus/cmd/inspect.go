package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/zoobzio/proteus"
	"github.com/zoobzio/proteus/protobin"
	"github.com/zoobzio/proteus/scene"
)

func newInspectCmd(a *app) *cobra.Command {
	var sealKey string

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "List the raw fields and cameras of a .protobin file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			opts, err := sealOptions(keyFile(sealKey, a))
			if err != nil {
				return err
			}

			payload, format, err := protobin.Payload(data, opts...)
			if err != nil {
				return err
			}
			raw, err := proteus.Scan(payload)
			if err != nil {
				return err
			}
			schema, err := proteus.SchemaOf[scene.AiScene]()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s: %s, %d byte payload\n\n", args[0], format, len(payload))
			fmt.Fprint(w, fieldTable(schema, raw))

			s := &scene.AiScene{}
			if err := proteus.Unmarshal(payload, s); err != nil {
				return err
			}
			if s.NumCameras() > 0 {
				fmt.Fprintln(w)
				fmt.Fprint(w, cameraTable(s))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sealKey, "seal-key-file", "", "AES key file for sealed input")
	return cmd
}

func fieldTable(schema *proteus.Schema, raw []proteus.RawField) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Number", "Wire type", "Offset", "Length", "Field"})
	for _, f := range raw {
		name := "unknown"
		if field := schema.FieldByNumber(f.Number); field != nil {
			name = field.Name
		}
		table.Append([]string{
			strconv.Itoa(int(f.Number)),
			wireTypeName(f.Type),
			strconv.Itoa(f.Offset),
			strconv.Itoa(len(f.Value)),
			name,
		})
	}
	table.SetFooter([]string{"", "", "", "fields", strconv.Itoa(len(raw))})
	table.Render()
	return buf.String()
}

func cameraTable(s *scene.AiScene) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Camera", "Position", "Look at", "Up", "FOV", "Near", "Far", "Aspect"})
	for _, c := range s.Cameras {
		table.Append([]string{
			c.GetName(),
			vecString(c.GetPosition()),
			vecString(c.GetLookAt()),
			vecString(c.GetUp()),
			fmt.Sprintf("%.4g", c.GetHorizontalFOV()),
			fmt.Sprintf("%.4g", c.GetClipPlaneNear()),
			fmt.Sprintf("%.4g", c.GetClipPlaneFar()),
			fmt.Sprintf("%.4g", c.GetAspect()),
		})
	}
	table.Render()
	return buf.String()
}

func vecString(v *scene.Vector3D) string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

func wireTypeName(t protowire.Type) string {
	switch t {
	case protowire.VarintType:
		return "varint"
	case protowire.Fixed32Type:
		return "fixed32"
	case protowire.Fixed64Type:
		return "fixed64"
	case protowire.BytesType:
		return "bytes"
	case protowire.StartGroupType:
		return "group"
	default:
		return strconv.Itoa(int(t))
	}
}
