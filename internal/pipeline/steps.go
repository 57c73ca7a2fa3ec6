package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mlderes/dstoolkit/internal/cleaning"
	"github.com/mlderes/dstoolkit/internal/config"
	"github.com/mlderes/dstoolkit/internal/frame"
)

// Step is a recipe step ready to run.
type Step struct {
	Op  string
	Run cleaning.Step
}

// operation builds the transform for one recipe step.
type operation struct {
	description string
	build       func(sc config.StepConfig, p cleaning.Policy, log cleaning.Logger) (cleaning.Step, error)
}

var operations = map[string]operation{
	"replace_in_column_names": {"Renaming columns", buildReplaceInColumnNames},
	"replace_values":          {"Replacing values", buildReplaceValues},
	"remove_columns":          {"Removing columns", buildRemoveColumns},
	"convert_to_bool":         {"Converting columns to boolean", buildConvertToBool},
	"convert_from_bool":       {"Converting boolean columns to 1/0", buildConvertFromBool},
	"convert_to_date":         {"Converting columns to dates", buildConvertToDate},
	"force_data_types":        {"Forcing column data types", buildForceDataTypes},
	"remove_na_rows":          {"Removing rows with missing data", buildRemoveNARows},
	"remove_duplicates":       {"Removing duplicate index entries", buildRemoveDuplicates},
	"text_to_dict":            {"Parsing dictionary columns", buildTextToDict},
	"merge_and_fill_gaps":     {"Merging columns", buildMergeAndFillGaps},
	"keep_matched":            {"Keeping matched rows", buildKeepMatched},
}

// Operations returns the recipe op names, sorted.
func Operations() []string {
	names := make([]string, 0, len(operations))
	for name := range operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildSteps turns recipe steps into runnable steps. Each step logs its
// description and the table shape around it.
func BuildSteps(steps []config.StepConfig, log cleaning.Logger) ([]Step, error) {
	out := make([]Step, 0, len(steps))
	for i, sc := range steps {
		op, ok := operations[sc.Op]
		if !ok {
			return nil, fmt.Errorf("step %d: unknown op %q (use one of %s)", i+1, sc.Op, strings.Join(Operations(), ", "))
		}
		p, err := cleaning.ParsePolicy(sc.Errors)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, sc.Op, err)
		}
		run, err := op.build(sc, p, log)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, sc.Op, err)
		}
		desc := sc.Description
		if desc == "" {
			desc = op.description
		}
		out = append(out, Step{Op: sc.Op, Run: cleaning.Describe(log, desc, sc.Op, run)})
	}
	return out, nil
}

func buildReplaceInColumnNames(sc config.StepConfig, p cleaning.Policy, _ cleaning.Logger) (cleaning.Step, error) {
	sel, err := cleaning.SelectorFromValue(sc.Columns, p)
	if err != nil {
		return nil, err
	}
	find := sc.Find
	if find == "" {
		find = " "
	}
	return func(f *frame.Frame) (*frame.Frame, error) {
		return cleaning.ReplaceInColumnNames(f, sel, find, sc.Replace), nil
	}, nil
}

func buildReplaceValues(sc config.StepConfig, _ cleaning.Policy, _ cleaning.Logger) (cleaning.Step, error) {
	if len(sc.Replacements) == 0 {
		return nil, fmt.Errorf("replacements must not be empty")
	}
	return func(f *frame.Frame) (*frame.Frame, error) {
		return cleaning.ReplaceValues(f, sc.Replacements), nil
	}, nil
}

func buildRemoveColumns(sc config.StepConfig, p cleaning.Policy, _ cleaning.Logger) (cleaning.Step, error) {
	if sc.Columns == nil {
		return nil, fmt.Errorf("columns must be set")
	}
	sel, err := cleaning.SelectorFromValue(sc.Columns, p)
	if err != nil {
		return nil, err
	}
	return func(f *frame.Frame) (*frame.Frame, error) {
		return cleaning.RemoveColumns(f, sel, p)
	}, nil
}

func buildConvertToBool(sc config.StepConfig, p cleaning.Policy, _ cleaning.Logger) (cleaning.Step, error) {
	sel, err := cleaning.SelectorFromValue(sc.Columns, p)
	if err != nil {
		return nil, err
	}
	return func(f *frame.Frame) (*frame.Frame, error) {
		return cleaning.ConvertToBool(f, sel), nil
	}, nil
}

func buildConvertFromBool(sc config.StepConfig, p cleaning.Policy, _ cleaning.Logger) (cleaning.Step, error) {
	sel, err := cleaning.SelectorFromValue(sc.Columns, p)
	if err != nil {
		return nil, err
	}
	return func(f *frame.Frame) (*frame.Frame, error) {
		return cleaning.ConvertFromBool(f, sel), nil
	}, nil
}

func buildConvertToDate(sc config.StepConfig, p cleaning.Policy, _ cleaning.Logger) (cleaning.Step, error) {
	sel, err := cleaning.SelectorFromValue(sc.Columns, p)
	if err != nil {
		return nil, err
	}
	return func(f *frame.Frame) (*frame.Frame, error) {
		return cleaning.ConvertToDate(f, sel, p)
	}, nil
}

func buildForceDataTypes(sc config.StepConfig, p cleaning.Policy, log cleaning.Logger) (cleaning.Step, error) {
	if len(sc.Types) == 0 {
		return nil, fmt.Errorf("types must not be empty")
	}
	sel, err := cleaning.SelectorFromValue(sc.Columns, p)
	if err != nil {
		return nil, err
	}
	return func(f *frame.Frame) (*frame.Frame, error) {
		return cleaning.ForceDataTypes(f, sc.Types, sel, p, log)
	}, nil
}

func buildRemoveNARows(sc config.StepConfig, p cleaning.Policy, _ cleaning.Logger) (cleaning.Step, error) {
	how, err := cleaning.ParseHow(sc.How)
	if err != nil {
		return nil, err
	}
	if sc.Threshold < 0 {
		return nil, fmt.Errorf("threshold must not be negative (got %d)", sc.Threshold)
	}
	subset, err := cleaning.SelectorFromValue(sc.Subset, p)
	if err != nil {
		return nil, err
	}
	opts := cleaning.NAOptions{How: how, Threshold: sc.Threshold, Subset: subset}
	return func(f *frame.Frame) (*frame.Frame, error) {
		return cleaning.RemoveNARows(f, opts), nil
	}, nil
}

func buildRemoveDuplicates(config.StepConfig, cleaning.Policy, cleaning.Logger) (cleaning.Step, error) {
	return func(f *frame.Frame) (*frame.Frame, error) {
		return cleaning.RemoveDuplicates(f), nil
	}, nil
}

func buildTextToDict(sc config.StepConfig, p cleaning.Policy, _ cleaning.Logger) (cleaning.Step, error) {
	sel, err := cleaning.SelectorFromValue(sc.Columns, p)
	if err != nil {
		return nil, err
	}
	return func(f *frame.Frame) (*frame.Frame, error) {
		return cleaning.TextToDict(f, sel, p)
	}, nil
}

func buildMergeAndFillGaps(sc config.StepConfig, _ cleaning.Policy, log cleaning.Logger) (cleaning.Step, error) {
	if sc.Left == "" || sc.Right == "" {
		return nil, fmt.Errorf("left and right must both be set")
	}
	return func(f *frame.Frame) (*frame.Frame, error) {
		return cleaning.MergeAndFillGaps(f, sc.Left, sc.Right, log)
	}, nil
}

func buildKeepMatched(_ config.StepConfig, p cleaning.Policy, log cleaning.Logger) (cleaning.Step, error) {
	return func(f *frame.Frame) (*frame.Frame, error) {
		if !f.Has(cleaning.MergeIndicator) {
			if p == cleaning.Raise {
				return nil, fmt.Errorf("column %q not found", cleaning.MergeIndicator)
			}
			return f, nil
		}
		matched, missing := cleaning.SplitMerged(f)
		log.Info("%d rows matched, %d rows unmatched", matched.Len(), missing.Len())
		return matched, nil
	}, nil
}
