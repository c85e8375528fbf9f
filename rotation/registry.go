package rotation

import "fmt"

// Builtin lists the shipped job tables.
func Builtin() []Job {
	return []Job{Dragoon(), Paladin(), WhiteMage()}
}

// NewJobLogics builds one JobLogic per table over a shared world. Each
// logic gets its own combo state.
func NewJobLogics(jobs []Job, world World, gate StackGate) ([]*JobLogic, error) {
	out := make([]*JobLogic, 0, len(jobs))
	seen := make(map[uint32]bool, len(jobs))
	for _, j := range jobs {
		if seen[j.ID] {
			return nil, fmt.Errorf("job %d (%s) registered twice", j.ID, j.Name)
		}
		seen[j.ID] = true
		l, err := NewJobLogic(j, world, gate)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}
