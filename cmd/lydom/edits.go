package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lydom/dom"
	"lydom/edit"
	"lydom/internal/logging"
	"lydom/lang/lily"
)

var (
	editsApply    bool
	editsMinimize bool
)

// editPlan is a JSON list of tree mutations. Elements are addressed by
// a byte offset into the original source; the deepest element covering
// the offset is the target.
type editPlan struct {
	Ops []planOp `json:"ops"`
}

type planOp struct {
	Op    string `json:"op"`              // set, remove, insert
	At    int    `json:"at"`              // byte offset of the target element
	Type  string `json:"type,omitempty"`  // element type name, insert only
	Value string `json:"value,omitempty"` // head value text
	Index int    `json:"index,omitempty"` // child slot for insert, -1 appends
}

// editsCmd applies a mutation plan to a file's element tree and prints
// the resulting text edits.
var editsCmd = &cobra.Command{
	Use:   "edits <file> <plan.json>",
	Short: "Apply a mutation plan and print the pending text edits",
	Args:  cobra.ExactArgs(2),
	RunE:  runEdits,
}

func init() {
	rootCmd.AddCommand(editsCmd)
	editsCmd.Flags().BoolVar(&editsApply, "apply", false, "Write the edited source back to the file")
	editsCmd.Flags().BoolVar(&editsMinimize, "minimize", false, "Refine replacements into character-level edits")
}

func runEdits(cmd *cobra.Command, args []string) error {
	path, planPath := args[0], args[1]

	planData, err := os.ReadFile(planPath)
	if err != nil {
		return fmt.Errorf("reading plan: %w", err)
	}
	var plan editPlan
	if err := json.Unmarshal(planData, &plan); err != nil {
		return fmt.Errorf("parsing plan %s: %w", planPath, err)
	}

	source, tree, root, _, err := openFile(path)
	if err != nil {
		return err
	}

	for i, op := range plan.Ops {
		if err := applyOp(root, op); err != nil {
			return fmt.Errorf("plan op %d (%s at %d): %w", i, op.Op, op.At, err)
		}
	}

	edits, err := root.Edits(tree)
	if err != nil {
		return fmt.Errorf("computing edits: %w", err)
	}
	if editsMinimize {
		edits = edit.Minimize(source, edits)
	}

	log := logging.Category(logger, logging.CategoryEdit)
	log.Info("computed edits", zap.String("file", path), zap.Int("count", len(edits)))

	out := make([]map[string]any, 0, len(edits))
	for _, e := range edits {
		out = append(out, map[string]any{"pos": e.Pos, "end": e.End, "text": e.Text})
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}

	if !editsApply {
		return nil
	}
	edited, _, err := edit.Apply(source, edits)
	if err != nil {
		return fmt.Errorf("applying edits: %w", err)
	}
	if err := os.WriteFile(path, edited, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// applyOp performs one plan mutation on the tree.
func applyOp(root *dom.Element, op planOp) error {
	target := root.FindDescendantAt(op.At)
	if target == nil {
		return fmt.Errorf("no element at offset %d", op.At)
	}
	switch op.Op {
	case "set":
		// Climb to the nearest element with a writable head.
		for target != nil && target.Type().Variant != dom.TextVariant {
			target = target.Parent()
		}
		if target == nil {
			return fmt.Errorf("no text element at offset %d", op.At)
		}
		v, err := headValue(target.Type(), op.Value)
		if err != nil {
			return err
		}
		return target.SetHead(v)

	case "remove":
		target.Detach()
		return nil

	case "insert":
		t := lily.TypeByName(op.Type)
		if t == nil {
			return fmt.Errorf("unknown element type %q", op.Type)
		}
		var el *dom.Element
		if t.Variant == dom.TextVariant {
			v, err := headValue(t, op.Value)
			if err != nil {
				return err
			}
			el, err = dom.NewText(t, v)
			if err != nil {
				return err
			}
		} else {
			el = dom.New(t)
		}
		if op.Index < 0 || op.Index >= target.Len() {
			return target.Append(el)
		}
		return target.Insert(op.Index, el)

	default:
		return fmt.Errorf("unknown op %q", op.Op)
	}
}

func headValue(t *dom.Type, text string) (any, error) {
	if t.Parse != nil {
		return t.Parse(text)
	}
	return text, nil
}
