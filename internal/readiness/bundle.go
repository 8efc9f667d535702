package readiness

import "strings"

// Verdict is the readiness outcome of a bundle or fleet.
type Verdict string

// Verdicts.
const (
	VerdictReady    Verdict = "READY"
	VerdictNotReady Verdict = "NOT_READY"
)

// BundleVerdict is the readiness of one bundle of cart items.
type BundleVerdict struct {
	Bundle     string   `json:"bundle"`
	Verdict    Verdict  `json:"verdict"`
	Members    int      `json:"members"`
	Blockers   []string `json:"blockers"`
	Advisories []string `json:"advisories"`
}

// Ready reports whether the bundle has no blocking members.
func (v BundleVerdict) Ready() bool {
	return v.Verdict == VerdictReady
}

// blocks reports whether a member status makes its bundle unusable.
// Expiring-soon and low-stock members are advisory only.
func blocks(s Status) bool {
	return s == StatusOutOfStock || s == StatusExpired
}

func advises(s Status) bool {
	return s == StatusExpiringSoon || s == StatusLowStock
}

// AggregateBundles groups classified items by bundle tag and reduces each
// group to a verdict. Untagged items are ignored. Groups appear in the order
// their tag is first seen; blockers keep their order within the group.
func AggregateBundles(items []ClassifiedItem) []BundleVerdict {
	index := make(map[string]int)
	var verdicts []BundleVerdict

	for _, item := range items {
		tag := strings.TrimSpace(item.Bundle)
		if tag == "" {
			continue
		}

		i, ok := index[tag]
		if !ok {
			i = len(verdicts)
			index[tag] = i
			verdicts = append(verdicts, BundleVerdict{
				Bundle:     tag,
				Blockers:   []string{},
				Advisories: []string{},
			})
		}

		v := &verdicts[i]
		v.Members++
		switch {
		case blocks(item.Status):
			v.Blockers = append(v.Blockers, item.Name)
		case advises(item.Status):
			v.Advisories = append(v.Advisories, item.Name)
		}
	}

	for i := range verdicts {
		if len(verdicts[i].Blockers) == 0 {
			verdicts[i].Verdict = VerdictReady
		} else {
			verdicts[i].Verdict = VerdictNotReady
		}
	}
	return verdicts
}
