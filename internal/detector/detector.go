package detector

import (
	"sort"
	"strings"

	"github.com/archlens/archlens/internal/scanner"
)

// Detect runs the rule table over every non-skipped file in the scan and
// extracts infrastructure resource blocks from Terraform files. Services
// sharing a canonical key are merged: evidence sums, configs shallow-merge
// with the later file winning on key collisions (deterministic by scan
// order).
func Detect(scan *scanner.Result) *Result {
	acc := newAccumulator()

	for _, f := range scan.Files {
		if f.Skipped != scanner.SkipNone {
			continue
		}

		content := strings.ToLower(f.Content)
		for i := range Rules {
			rule := &Rules[i]
			if rule.Match(content, f.RelPath) {
				acc.addEvidence(rule.Key, rule.Name, rule.Category, rule.Weight)
			}
		}

		if f.Language == "Terraform" {
			blocks, ambiguity := parseResourceBlocks(f.Content)
			if ambiguity != "" {
				acc.ambiguities = append(acc.ambiguities, Ambiguity{File: f.RelPath, Reason: ambiguity})
			}
			for _, b := range blocks {
				acc.addBlock(b, f.RelPath)
			}
		}
	}

	return acc.result()
}

// accumulator merges per-file detections into the final service set.
type accumulator struct {
	services    map[string]*Service
	order       []string // canonical keys in first-seen order
	references  []Reference
	ambiguities []Ambiguity
}

func newAccumulator() *accumulator {
	return &accumulator{services: make(map[string]*Service)}
}

func (a *accumulator) get(key, name string, category Category) *Service {
	if svc, ok := a.services[key]; ok {
		return svc
	}
	svc := &Service{
		ID:           sanitizeKey(key),
		Name:         name,
		CanonicalKey: key,
		Category:     category,
	}
	a.services[key] = svc
	a.order = append(a.order, key)
	return svc
}

func (a *accumulator) addEvidence(key, name string, category Category, weight int) {
	svc := a.get(key, name, category)
	svc.EvidenceCount += weight
}

// addBlock merges one parsed resource block into the service set.
func (a *accumulator) addBlock(b resourceBlock, file string) {
	mapping, known := resourceTypeMap[b.Type]
	if !known {
		mapping.Key = sanitizeKey(b.Type)
		mapping.Category = CategoryOther
		mapping.Name = b.Type
	}

	svc := a.get(mapping.Key, mapping.Name, mapping.Category)
	svc.EvidenceCount++
	if svc.ResourceName == "" {
		svc.ResourceName = b.Name
	}
	if svc.Config == nil {
		svc.Config = make(map[string]any)
	}
	for k, v := range b.Body {
		svc.Config[k] = v
	}

	// String scalars in the body may name other resources; they become
	// edge seeds for the graph builder.
	for _, v := range b.Body {
		if s, ok := v.(string); ok && s != "" {
			a.references = append(a.references, Reference{
				SourceID: svc.ID,
				Value:    s,
				File:     file,
			})
		}
	}
}

// result finalizes the service set. Services with evidence are emitted in
// a deterministic order: descending evidence, then canonical key.
func (a *accumulator) result() *Result {
	res := &Result{
		References:  a.references,
		Ambiguities: a.ambiguities,
	}
	for _, key := range a.order {
		svc := a.services[key]
		if svc.EvidenceCount >= 1 {
			res.Services = append(res.Services, *svc)
		}
	}
	sort.SliceStable(res.Services, func(i, j int) bool {
		if res.Services[i].EvidenceCount != res.Services[j].EvidenceCount {
			return res.Services[i].EvidenceCount > res.Services[j].EvidenceCount
		}
		return res.Services[i].CanonicalKey < res.Services[j].CanonicalKey
	})
	return res
}

// sanitizeKey turns a canonical key into a stable service id: lowercase,
// non-alphanumeric runs collapsed to underscores.
func sanitizeKey(key string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(key) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}
