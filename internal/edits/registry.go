package edits

import "sort"

var registry = map[string]EditHandler{
	"add_segment":         &AddSegmentHandler{},
	"remove_segment":      &RemoveSegmentHandler{},
	"update_segment":      &UpdateSegmentHandler{},
	"set_discount_rate":   &SetDiscountRateHandler{},
	"set_terminal_growth": &SetTerminalGrowthHandler{},
	"set_ode_step_size":   &SetODEStepSizeHandler{},
	"set_ode_method":      &SetODEMethodHandler{},
	"set_plot_periods":    &SetPlotPeriodsHandler{},
}

func Get(name string) (EditHandler, bool) {
	h, ok := registry[name]
	return h, ok
}

// Names lists the registered edits in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
