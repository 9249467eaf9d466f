package uci

import (
	"fmt"
	"strconv"
	"strings"
)

type OptionKind string

const (
	OptionCheck  OptionKind = "check"
	OptionSpin   OptionKind = "spin"
	OptionCombo  OptionKind = "combo"
	OptionButton OptionKind = "button"
	OptionString OptionKind = "string"
)

// EngineOption is one declared engine parameter. Only Current changes after
// the handshake.
type EngineOption struct {
	Name    string
	Kind    OptionKind
	Default string
	Min     int
	Max     int
	Vars    []string
	Current string
}

var optionKeywords = map[string]struct{}{
	"name":    {},
	"type":    {},
	"default": {},
	"min":     {},
	"max":     {},
	"var":     {},
}

// ParseOptionLine reads "option name <id> type <t> [default <x>] [min <x>] [max <x>] [var <x>]...".
// Names and values may contain spaces.
func ParseOptionLine(line string) (EngineOption, bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 || fields[0] != "option" {
		return EngineOption{}, false
	}

	opt := EngineOption{}
	for i := 1; i < len(fields); {
		keyword := fields[i]
		if _, ok := optionKeywords[keyword]; !ok {
			i++
			continue
		}
		j := i + 1
		for j < len(fields) {
			if _, ok := optionKeywords[fields[j]]; ok {
				break
			}
			j++
		}
		value := strings.Join(fields[i+1:j], " ")
		switch keyword {
		case "name":
			opt.Name = value
		case "type":
			opt.Kind = OptionKind(value)
		case "default":
			if value != "<empty>" {
				opt.Default = value
			}
		case "min":
			opt.Min, _ = strconv.Atoi(value)
		case "max":
			opt.Max, _ = strconv.Atoi(value)
		case "var":
			opt.Vars = append(opt.Vars, value)
		}
		i = j
	}
	if opt.Name == "" || opt.Kind == "" {
		return EngineOption{}, false
	}
	opt.Current = opt.Default
	return opt, true
}

// Set validates value against the option declaration and stores it as Current.
func (o *EngineOption) Set(value string) error {
	switch o.Kind {
	case OptionCheck:
		if value != "true" && value != "false" {
			return fmt.Errorf("option %s: %q is not true or false", o.Name, value)
		}
	case OptionSpin:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("option %s: %q is not an integer", o.Name, value)
		}
		if n < o.Min || n > o.Max {
			return fmt.Errorf("option %s: %d outside [%d, %d]", o.Name, n, o.Min, o.Max)
		}
	case OptionCombo:
		found := false
		for _, v := range o.Vars {
			if strings.EqualFold(v, value) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("option %s: %q is not one of %v", o.Name, value, o.Vars)
		}
	case OptionButton:
		return fmt.Errorf("option %s: buttons take no value", o.Name)
	}
	o.Current = value
	return nil
}
