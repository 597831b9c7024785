package fleet

import "sync"

// Parameter is one fetched PARAM_VALUE entry.
type Parameter struct {
	Name  string
	Index uint16
	Value float32
	Type  uint8 // MAV_PARAM_TYPE
}

// parameterMap is the per-vehicle name -> Parameter table, plus the
// bookkeeping the Parameter Harvester needs to know when the full
// vehicle parameter set has arrived (spec.md §3/§4.4).
type parameterMap struct {
	mu            sync.RWMutex
	byName        map[string]Parameter
	seenIndex     map[uint16]bool
	expectedCount uint16
	countKnown    bool
}

func newParameterMap() *parameterMap {
	return &parameterMap{
		byName:    make(map[string]Parameter),
		seenIndex: make(map[uint16]bool),
	}
}

// insert records a PARAM_VALUE. The first message seen fixes
// expectedCount; later messages never change it (spec.md property P5:
// "no duplicate insertions change expected_count").
func (p *parameterMap) insert(name string, index uint16, value float32, ptype uint8, paramCount uint16) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.countKnown {
		p.expectedCount = paramCount
		p.countKnown = true
	}

	p.byName[name] = Parameter{Name: name, Index: index, Value: value, Type: ptype}
	p.seenIndex[index] = true
}

// complete reports whether every index in [0, expectedCount) has been
// seen. False while expectedCount is still unknown.
func (p *parameterMap) complete() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.countKnown {
		return false
	}
	if uint16(len(p.seenIndex)) < p.expectedCount {
		return false
	}
	for i := uint16(0); i < p.expectedCount; i++ {
		if !p.seenIndex[i] {
			return false
		}
	}
	return true
}

// missingIndices returns indices in [0, expectedCount) not yet seen,
// used by the harvester's indexed PARAM_REQUEST_READ fallback.
func (p *parameterMap) missingIndices() []uint16 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.countKnown {
		return nil
	}
	var missing []uint16
	for i := uint16(0); i < p.expectedCount; i++ {
		if !p.seenIndex[i] {
			missing = append(missing, i)
		}
	}
	return missing
}

// snapshot returns a defensive copy of every parameter currently held.
func (p *parameterMap) snapshot() map[string]Parameter {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make(map[string]Parameter, len(p.byName))
	for k, v := range p.byName {
		out[k] = v
	}
	return out
}
