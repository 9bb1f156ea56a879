package domain

import (
	"encoding/binary"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IDKind is the category prefix of a task identifier.
type IDKind string

const (
	KindRoutine IDKind = "routine"
	KindTask    IDKind = "task"
	KindCustom  IDKind = "custom"
	KindExam    IDKind = "exam"
	KindNote    IDKind = "note"
	KindUnknown IDKind = ""
)

// TaskID identifies a schedulable unit. Plan-derived ids carry their date as
// a real field; user-authored ids carry a creation stamp and a nonce. The
// string form is produced only by String and read back by ParseTaskID.
type TaskID struct {
	Kind IDKind
	// Tag is the routine kind or the subject slug for plan-derived ids.
	Tag  string
	Date Day
	// Stamp and Nonce identify user-authored records.
	Stamp int64
	Nonce string

	raw string
}

// RoutineTaskID returns the id of a routine quota task on day.
func RoutineTaskID(kind RoutineKind, day Day) TaskID {
	return TaskID{Kind: KindRoutine, Tag: string(kind), Date: day}
}

// StudyTaskID returns the id of the subject study task on day.
func StudyTaskID(subject Subject, day Day) TaskID {
	return TaskID{Kind: KindTask, Tag: subject.Slug(), Date: day}
}

// IsPlanDerived reports whether the id is a routine or study task id.
func (id TaskID) IsPlanDerived() bool {
	return id.Kind == KindRoutine || id.Kind == KindTask
}

func (id TaskID) IsZero() bool {
	return id.Kind == KindUnknown && id.raw == ""
}

// Routine returns the routine kind of a routine task id.
func (id TaskID) Routine() (RoutineKind, bool) {
	if id.Kind != KindRoutine {
		return "", false
	}
	return RoutineKind(id.Tag), true
}

// Subject returns the subject of a study task id.
func (id TaskID) Subject() (Subject, bool) {
	if id.Kind != KindTask {
		return "", false
	}
	return SubjectFromSlug(id.Tag)
}

func (id TaskID) String() string {
	switch id.Kind {
	case KindRoutine, KindTask:
		return string(id.Kind) + "-" + id.Tag + "-" + id.Date.String()
	case KindCustom, KindExam, KindNote:
		return string(id.Kind) + "-" + strconv.FormatInt(id.Stamp, 10) + "-" + id.Nonce
	default:
		return id.raw
	}
}

// ParseTaskID reads the string form of an id. Strings that match no known
// shape are kept verbatim with KindUnknown so stored data is never dropped.
func ParseTaskID(s string) TaskID {
	kind, rest, ok := strings.Cut(s, "-")
	if !ok {
		return TaskID{raw: s}
	}
	switch IDKind(kind) {
	case KindRoutine, KindTask:
		if len(rest) < len(DayLayout)+2 {
			break
		}
		tag := rest[:len(rest)-len(DayLayout)-1]
		if rest[len(tag)] != '-' || tag == "" {
			break
		}
		day, err := ParseDay(rest[len(tag)+1:])
		if err != nil {
			break
		}
		return canonical(TaskID{Kind: IDKind(kind), Tag: tag, Date: day}, s)
	case KindCustom, KindExam, KindNote:
		stamp, nonce, ok := strings.Cut(rest, "-")
		if !ok || nonce == "" {
			break
		}
		n, err := strconv.ParseInt(stamp, 10, 64)
		if err != nil {
			break
		}
		return canonical(TaskID{Kind: IDKind(kind), Stamp: n, Nonce: nonce}, s)
	}
	return TaskID{raw: s}
}

// canonical keeps the parsed form only when it prints back to s.
func canonical(id TaskID, s string) TaskID {
	if id.String() != s {
		return TaskID{raw: s}
	}
	return id
}

func (id TaskID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *TaskID) UnmarshalText(b []byte) error {
	*id = ParseTaskID(string(b))
	return nil
}

// Equal compares ids by their string form.
func (id TaskID) Equal(other TaskID) bool {
	return id.String() == other.String()
}

const nonceAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// IDGenerator mints ids for user-authored records.
type IDGenerator interface {
	NewID(kind IDKind) TaskID
}

// RandomIDs mints ids of the form <kind>-<unixMillis>-<9 base36 chars>.
type RandomIDs struct {
	Now func() time.Time
}

func (g RandomIDs) NewID(kind IDKind) TaskID {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	return TaskID{Kind: kind, Stamp: now().UnixMilli(), Nonce: randomNonce(9)}
}

func randomNonce(n int) string {
	u := uuid.New()
	v := binary.BigEndian.Uint64(u[:8]) ^ binary.BigEndian.Uint64(u[8:])
	b := make([]byte, n)
	for i := range b {
		b[i] = nonceAlphabet[v%36]
		v /= 36
	}
	return string(b)
}
