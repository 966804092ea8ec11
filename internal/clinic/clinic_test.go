package clinic

import (
	"fmt"
	"time"

	"github.com/kinai/kinai/internal/model"
)

// testDeps returns deterministic deps: a fixed clock and sequential IDs.
func testDeps(now time.Time) Deps {
	var n, a int
	return Deps{
		Now: func() time.Time { return now },
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%03d", n)
		},
		NewAttachmentID: func() string {
			a++
			return fmt.Sprintf("att-%03d", a)
		},
	}
}

func ids[T model.Patient | model.Session](items []T) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		switch v := any(it).(type) {
		case model.Patient:
			out = append(out, v.ID)
		case model.Session:
			out = append(out, v.ID)
		}
	}
	return out
}
