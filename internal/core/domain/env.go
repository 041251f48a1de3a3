package domain

// EnvValue is the value of one environment variable at parse time,
// distinguishing an unset variable from one set to the empty string.
type EnvValue struct {
	Value   string
	Present bool
}

// EnvSnapshot records the environment variables a build file parse consulted
// and the values observed. It is committed with the manifest and compared on
// later builds to decide whether the manifest is still valid.
type EnvSnapshot map[string]EnvValue

// Clone returns an independent copy of the snapshot.
func (s EnvSnapshot) Clone() EnvSnapshot {
	if s == nil {
		return nil
	}
	out := make(EnvSnapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// EnvDiff describes the first tracked environment variable whose current
// value differs from the recorded parse-time value.
type EnvDiff struct {
	Variable string
	Recorded EnvValue
	Current  EnvValue
}
