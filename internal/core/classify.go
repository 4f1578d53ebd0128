package core

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TimeType is the primary classification of an entry.
type TimeType string

const (
	TimeCT    TimeType = "CT"    // coding time: mastery/bootcamp tracks
	TimeVT    TimeType = "VT"    // video time: production work
	TimeOther TimeType = "Other" // everything else
)

// CTCategory is the subject area of a coding-time entry.
type CTCategory string

const (
	CTNone            CTCategory = ""
	CTSQL             CTCategory = "SQL"
	CTDataEngineering CTCategory = "Data_Engineering"
	CTPython          CTCategory = "Python"
	CTFODE            CTCategory = "FODE"
	CTAWS             CTCategory = "AWS"
)

// CTType distinguishes learning-oriented from delivery-oriented coding time.
type CTType string

const (
	CTTypeNone              CTType = ""
	CTTypeDeepDive          CTType = "Deep_Dive"
	CTTypeShipping          CTType = "Shipping"
	CTTypeUncategorized     CTType = "Uncategorized"
	CTTypePreClassification CTType = "Pre_Classification"
)

// VTCategory is the production phase of a video-time entry.
type VTCategory string

const (
	VTNone      VTCategory = ""
	VTFilming   VTCategory = "Filming"
	VTScripting VTCategory = "Scripting"
	VTEditing   VTCategory = "Editing"
)

// categoryRule maps a task substring to a CT subject. Rules are evaluated in
// order; the order matters because labels share substrings ("HackerRank SQL"
// also contains no other marker, but "AWS BIG DATA" must not win over
// "Data Engineering").
type categoryRule struct {
	Substr   string
	Category CTCategory
}

// subtypeRule maps a case-insensitive task substring to a VT activity.
type subtypeRule struct {
	Substr   string
	Category VTCategory
}

// Rules is the keyword configuration driving classification. It is data, not
// control flow, so the tables can be unit-tested and extended in isolation.
type Rules struct {
	// CTTasks and VTTasks are matched as case-sensitive substrings of the
	// task label; CT is checked first.
	CTTasks []string
	VTTasks []string

	// CTCategories is the ordered subject rule table for CT tasks.
	CTCategories []categoryRule

	// DeepDiveMarkers and ShippingMarkers are searched case-sensitively in
	// the notes of post-cutover CT entries.
	DeepDiveMarkers []string
	ShippingMarkers []string
	// ShippingPrefix additionally matches notes that begin with "S ".
	ShippingPrefix string

	// VTCategories is the activity rule table for VT tasks.
	VTCategories []subtypeRule

	// DayPattern extracts the challenge day number from task+notes text.
	DayPattern *regexp.Regexp
}

// DefaultRules returns the production keyword tables from the Harvest export
// conventions.
func DefaultRules() Rules {
	return Rules{
		CTTasks: []string{
			"MASTERY: Data Engineering Bootcamp",
			"MASTERY: Python Bootcamp",
			"MASTERY: SQL Bootcamp",
			"MASTERY: HackerRank SQL",
			"MASTERY: AWS BIG DATA bootcamp",
			"MASTERY: FODE",
		},
		VTTasks: []string{
			"BUILDING PROJECTS: Video filming",
			"BUILDING PROJECTS: Video Script Writing",
			"BUILDING PROJECTS: Video editing",
		},
		CTCategories: []categoryRule{
			{"SQL", CTSQL},
			{"Data Engineering", CTDataEngineering},
			{"Python", CTPython},
			{"FODE", CTFODE},
			{"AWS", CTAWS},
		},
		DeepDiveMarkers: []string{"DEEP DIVE", "DL:", "DL "},
		ShippingMarkers: []string{"SHIPPING", "S:"},
		ShippingPrefix:  "S ",
		VTCategories: []subtypeRule{
			{"filming", VTFilming},
			{"script", VTScripting},
			{"editing", VTEditing},
		},
		DayPattern: regexp.MustCompile(`[Dd]ay\s*(\d+)`),
	}
}

// Classification is the full tag set derived from one entry.
type Classification struct {
	TimeType   TimeType
	CTCategory CTCategory
	VTCategory VTCategory
	CTType     CTType
	// DayNumber is the extracted challenge day for VT entries, 0 when absent.
	DayNumber int
}

// Classifier applies a Rules table against entries. The zero value is not
// usable; build one with NewClassifier.
type Classifier struct {
	rules Rules
	cal   Calendar
}

// NewClassifier builds a classifier for the given rule tables and calendar.
func NewClassifier(rules Rules, cal Calendar) *Classifier {
	return &Classifier{rules: rules, cal: cal}
}

// Classify maps a raw (task, notes, date) triple to its tag set. It is total:
// unmatched text resolves to Other/Uncategorized/Pre_Classification or to the
// zero value of the field, never to an error.
func (c *Classifier) Classify(task, notes string, date time.Time) Classification {
	res := Classification{TimeType: c.timeType(task)}
	switch res.TimeType {
	case TimeCT:
		res.CTCategory = c.ctCategory(task)
		res.CTType = c.ctType(notes, date)
	case TimeVT:
		res.VTCategory = c.vtCategory(task)
		res.DayNumber = c.dayNumber(task, notes)
	}
	return res
}

func (c *Classifier) timeType(task string) TimeType {
	if task == "" {
		return TimeOther
	}
	for _, ct := range c.rules.CTTasks {
		if strings.Contains(task, ct) {
			return TimeCT
		}
	}
	for _, vt := range c.rules.VTTasks {
		if strings.Contains(task, vt) {
			return TimeVT
		}
	}
	return TimeOther
}

func (c *Classifier) ctCategory(task string) CTCategory {
	for _, r := range c.rules.CTCategories {
		if strings.Contains(task, r.Substr) {
			return r.Category
		}
	}
	return CTNone
}

func (c *Classifier) ctType(notes string, date time.Time) CTType {
	if midnightUTC(date).Before(midnightUTC(c.cal.Cutover)) {
		// Historical entries predate the notes convention.
		return CTTypePreClassification
	}
	if notes == "" {
		return CTTypeUncategorized
	}
	for _, m := range c.rules.DeepDiveMarkers {
		if strings.Contains(notes, m) {
			return CTTypeDeepDive
		}
	}
	for _, m := range c.rules.ShippingMarkers {
		if strings.Contains(notes, m) {
			return CTTypeShipping
		}
	}
	if strings.HasPrefix(notes, c.rules.ShippingPrefix) {
		return CTTypeShipping
	}
	return CTTypeUncategorized
}

func (c *Classifier) vtCategory(task string) VTCategory {
	lower := strings.ToLower(task)
	for _, r := range c.rules.VTCategories {
		if strings.Contains(lower, r.Substr) {
			return r.Category
		}
	}
	return VTNone
}

// dayNumber searches the task text first, then the notes, mirroring the
// export convention of tagging either field with "Day N".
func (c *Classifier) dayNumber(task, notes string) int {
	text := task + " " + notes
	m := c.rules.DayPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
