package backtest

import "fmt"

// Hook names that cannot be declared as signals.
var reserved = map[string]bool{
	"take_profit": true,
	"stop_loss":   true,
	"stop":        true,
}

type signal struct {
	name string
	fn   SignalFunc
}

// discoverSignals returns entry first, then the strategy's own signals in
// declared order with duplicates and reserved names dropped.
func discoverSignals(st Strategy) ([]signal, error) {
	sigs := []signal{{name: Entry, fn: st.OnEntry}}

	sg, ok := st.(Signaler)
	if !ok {
		return sigs, nil
	}

	seen := map[string]bool{Entry: true}
	for _, name := range sg.SignalNames() {
		if seen[name] || reserved[name] || name == "" {
			continue
		}
		seen[name] = true

		fn := sg.HandlerFor(name)
		if fn == nil {
			return nil, fmt.Errorf("%w: %q", ErrMissingHandler, name)
		}
		sigs = append(sigs, signal{name: name, fn: fn})
	}
	return sigs, nil
}

func signalNames(sigs []signal) []string {
	out := make([]string, len(sigs))
	for i, s := range sigs {
		out[i] = s.name
	}
	return out
}
