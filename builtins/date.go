package builtins

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/example/es5go/runtime"
)

const (
	msPerSecond = 1000.0
	msPerMinute = 60000.0
	msPerHour   = 3600000.0
	msPerDay    = 86400000.0
	maxTime     = 8.64e15

	invalidDate = "Invalid Date"
)

// Date field indices, in MakeDay/MakeTime argument order.
const (
	fieldYear = iota
	fieldMonth
	fieldDate
	fieldHours
	fieldMinutes
	fieldSeconds
	fieldMillis
	numDateFields
)

func (r *registry) createDateConstructor() *runtime.Object {
	proto := r.realm.DatePrototype

	r.setMethod(proto, "toString", 0, r.dateFormatter("toString", dateTimeLayout, true))
	r.setMethod(proto, "toDateString", 0, r.dateFormatter("toDateString", dateLayout, true))
	r.setMethod(proto, "toTimeString", 0, r.dateFormatter("toTimeString", timeLayout, true))
	r.setMethod(proto, "toLocaleString", 0, r.dateFormatter("toLocaleString", localeDateTimeLayout, true))
	r.setMethod(proto, "toLocaleDateString", 0, r.dateFormatter("toLocaleDateString", dateLayout, true))
	r.setMethod(proto, "toLocaleTimeString", 0, r.dateFormatter("toLocaleTimeString", localeTimeLayout, true))
	utcString := r.setMethod(proto, "toUTCString", 0, r.dateFormatter("toUTCString", utcLayout, false))
	setDataProp(proto, "toGMTString", runtime.ObjectValue(utcString), true, false, true)
	r.setMethod(proto, "toISOString", 0, dateToISOString)
	r.setMethod(proto, "toJSON", 1, r.dateToJSON)
	r.setMethod(proto, "valueOf", 0, dateValueOf)
	r.setMethod(proto, "getTime", 0, dateValueOf)
	r.setMethod(proto, "getTimezoneOffset", 0, r.dateGetTimezoneOffset)
	r.setMethod(proto, "setTime", 1, dateSetTime)

	for _, g := range []struct {
		name  string
		field func(t float64) float64
	}{
		{"FullYear", yearFromTime},
		{"Month", monthFromTime},
		{"Date", dateFromTime},
		{"Day", weekDay},
		{"Hours", hourFromTime},
		{"Minutes", minFromTime},
		{"Seconds", secFromTime},
		{"Milliseconds", msFromTime},
	} {
		r.setMethod(proto, "get"+g.name, 0, r.dateGetter("get"+g.name, g.field, true))
		r.setMethod(proto, "getUTC"+g.name, 0, r.dateGetter("getUTC"+g.name, g.field, false))
	}

	for _, s := range []struct {
		name    string
		first   int
		maxArgs int
	}{
		{"Milliseconds", fieldMillis, 1},
		{"Seconds", fieldSeconds, 2},
		{"Minutes", fieldMinutes, 3},
		{"Hours", fieldHours, 4},
		{"Date", fieldDate, 1},
		{"Month", fieldMonth, 2},
		{"FullYear", fieldYear, 3},
	} {
		r.setMethod(proto, "set"+s.name, s.maxArgs, r.dateSetter("set"+s.name, s.first, s.maxArgs, true))
		r.setMethod(proto, "setUTC"+s.name, s.maxArgs, r.dateSetter("setUTC"+s.name, s.first, s.maxArgs, false))
	}
	r.setMethod(proto, "getYear", 0, r.dateGetYear)
	r.setMethod(proto, "setYear", 1, r.dateSetYear)

	ctor := r.newFuncObject("Date", 7, func(runtime.Value, []runtime.Value) (runtime.Value, error) {
		return runtime.Str(r.formatTime(nowMillis(), dateTimeLayout, true)), nil
	})
	ctor.Constructor = r.dateConstruct
	linkConstructor(ctor, proto)

	r.setMethod(ctor, "parse", 1, r.dateParse)
	r.setMethod(ctor, "UTC", 7, dateUTC)
	r.setMethod(ctor, "now", 0, func(runtime.Value, []runtime.Value) (runtime.Value, error) {
		return runtime.Num(nowMillis()), nil
	})
	return ctor
}

func nowMillis() float64 {
	return float64(time.Now().UnixMilli())
}

func (r *registry) newDate(t float64) *runtime.Object {
	obj := runtime.NewObject(r.realm.DatePrototype)
	obj.Class = runtime.ClassDate
	obj.Primitive = runtime.Num(timeClip(t))
	return obj
}

func (r *registry) dateConstruct(args []runtime.Value) (runtime.Value, error) {
	switch len(args) {
	case 0:
		return runtime.ObjectValue(r.newDate(nowMillis())), nil
	case 1:
		v, err := runtime.ToPrimitive(args[0], runtime.HintNone)
		if err != nil {
			return runtime.Undefined, err
		}
		if v.IsString() {
			return runtime.ObjectValue(r.newDate(r.parseDate(v.AsString()))), nil
		}
		t, err := runtime.ToNumber(v)
		if err != nil {
			return runtime.Undefined, err
		}
		return runtime.ObjectValue(r.newDate(t)), nil
	}
	t, err := dateFromArgs(args)
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.ObjectValue(r.newDate(r.utc(t))), nil
}

// dateFromArgs applies the (year, month[, date[, hours[, minutes[,
// seconds[, ms]]]]]) argument convention shared by new Date and Date.UTC.
func dateFromArgs(args []runtime.Value) (float64, error) {
	fields := [numDateFields]float64{fieldDate: 1}
	for i := 0; i < numDateFields && i < len(args); i++ {
		n, err := runtime.ToNumber(args[i])
		if err != nil {
			return 0, err
		}
		fields[i] = n
	}
	if y := fields[fieldYear]; !math.IsNaN(y) {
		if yi := runtime.IntegerOf(y); yi >= 0 && yi <= 99 {
			fields[fieldYear] = 1900 + yi
		}
	}
	return composeFields(fields), nil
}

// dateUTC reads a missing year or month as NaN.
func dateUTC(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	if len(args) < 2 {
		args = append(append([]runtime.Value(nil), args...), runtime.Undefined, runtime.Undefined)
	}
	t, err := dateFromArgs(args)
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.Num(timeClip(t)), nil
}

func (r *registry) dateParse(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s, err := toStringArg(args, 0)
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.Num(r.parseDate(s)), nil
}

func thisTimeValue(this runtime.Value, method string) (*runtime.Object, float64, error) {
	if !isClass(this, runtime.ClassDate) {
		return nil, 0, runtime.NewTypeError("Date.prototype.%s called on incompatible receiver %s", method, this)
	}
	obj := this.AsObject()
	return obj, obj.Primitive.AsNumber(), nil
}

func dateValueOf(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
	_, t, err := thisTimeValue(this, "valueOf")
	return runtime.Num(t), err
}

func dateSetTime(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	obj, _, err := thisTimeValue(this, "setTime")
	if err != nil {
		return runtime.Undefined, err
	}
	t, err := toNumberArg(args, 0)
	if err != nil {
		return runtime.Undefined, err
	}
	obj.Primitive = runtime.Num(timeClip(t))
	return obj.Primitive, nil
}

func (r *registry) dateGetTimezoneOffset(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
	_, t, err := thisTimeValue(this, "getTimezoneOffset")
	if err != nil || math.IsNaN(t) {
		return runtime.NaN, err
	}
	return runtime.Num((t - r.localTime(t)) / msPerMinute), nil
}

func (r *registry) dateGetter(method string, field func(float64) float64, local bool) runtime.NativeFunc {
	return func(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
		_, t, err := thisTimeValue(this, method)
		if err != nil || math.IsNaN(t) {
			return runtime.NaN, err
		}
		if local {
			t = r.localTime(t)
		}
		return runtime.Num(field(t)), nil
	}
}

// dateSetter replaces up to maxArgs consecutive fields starting at first.
// Only setFullYear revives an invalid date, treating it as +0.
func (r *registry) dateSetter(method string, first, maxArgs int, local bool) runtime.NativeFunc {
	return func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		obj, t, err := thisTimeValue(this, method)
		if err != nil {
			return runtime.Undefined, err
		}
		vals := make([]float64, 0, maxArgs)
		for i := 0; i < maxArgs && (i == 0 || i < len(args)); i++ {
			n, err := toNumberArg(args, i)
			if err != nil {
				return runtime.Undefined, err
			}
			vals = append(vals, n)
		}
		switch {
		case math.IsNaN(t) && first == fieldYear:
			t = 0
		case math.IsNaN(t):
			return runtime.NaN, nil
		case local:
			t = r.localTime(t)
		}
		fields := decomposeTime(t)
		copy(fields[first:], vals)
		u := composeFields(fields)
		if local {
			u = r.utc(u)
		}
		obj.Primitive = runtime.Num(timeClip(u))
		return obj.Primitive, nil
	}
}

func (r *registry) dateGetYear(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
	_, t, err := thisTimeValue(this, "getYear")
	if err != nil || math.IsNaN(t) {
		return runtime.NaN, err
	}
	return runtime.Num(yearFromTime(r.localTime(t)) - 1900), nil
}

func (r *registry) dateSetYear(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	obj, t, err := thisTimeValue(this, "setYear")
	if err != nil {
		return runtime.Undefined, err
	}
	if math.IsNaN(t) {
		t = 0
	} else {
		t = r.localTime(t)
	}
	y, err := toNumberArg(args, 0)
	if err != nil {
		return runtime.Undefined, err
	}
	if math.IsNaN(y) {
		obj.Primitive = runtime.NaN
		return runtime.NaN, nil
	}
	yi := runtime.IntegerOf(y)
	if yi >= 0 && yi <= 99 {
		yi += 1900
	}
	day := makeDay(yi, monthFromTime(t), dateFromTime(t))
	obj.Primitive = runtime.Num(timeClip(r.utc(makeDate(day, timeWithinDay(t)))))
	return obj.Primitive, nil
}

func dateToISOString(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
	_, t, err := thisTimeValue(this, "toISOString")
	if err != nil {
		return runtime.Undefined, err
	}
	if math.IsNaN(t) {
		return runtime.Undefined, runtime.NewRangeError("Invalid time value")
	}
	return runtime.Str(isoString(t)), nil
}

func isoString(t float64) string {
	f := decomposeTime(t)
	year := int(f[fieldYear])
	var ys string
	switch {
	case year >= 0 && year <= 9999:
		ys = fmt.Sprintf("%04d", year)
	case year < 0:
		ys = fmt.Sprintf("-%06d", -year)
	default:
		ys = fmt.Sprintf("+%06d", year)
	}
	return fmt.Sprintf("%s-%02d-%02dT%02d:%02d:%02d.%03dZ", ys,
		int(f[fieldMonth])+1, int(f[fieldDate]),
		int(f[fieldHours]), int(f[fieldMinutes]), int(f[fieldSeconds]), int(f[fieldMillis]))
}

// dateToJSON is generic: it works on any object with a callable
// toISOString.
func (r *registry) dateToJSON(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
	obj, err := r.thisObject(this, "Date.prototype.toJSON")
	if err != nil {
		return runtime.Undefined, err
	}
	tv, err := runtime.ToPrimitive(runtime.ObjectValue(obj), runtime.HintNumber)
	if err != nil {
		return runtime.Undefined, err
	}
	if tv.IsNumber() && (math.IsNaN(tv.AsNumber()) || math.IsInf(tv.AsNumber(), 0)) {
		return runtime.Null, nil
	}
	toISO, err := obj.Get("toISOString")
	if err != nil {
		return runtime.Undefined, err
	}
	if !toISO.IsCallable() {
		return runtime.Undefined, runtime.NewTypeError("toISOString is not a function")
	}
	return toISO.AsObject().Call(runtime.ObjectValue(obj), nil)
}

const (
	dateTimeLayout       = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"
	dateLayout           = "Mon Jan 02 2006"
	timeLayout           = "15:04:05 GMT-0700 (MST)"
	localeDateTimeLayout = "Mon Jan 02 2006 15:04:05"
	localeTimeLayout     = "15:04:05"
	utcLayout            = "Mon, 02 Jan 2006 15:04:05 GMT"
)

func (r *registry) dateFormatter(method, layout string, local bool) runtime.NativeFunc {
	return func(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
		_, t, err := thisTimeValue(this, method)
		if err != nil {
			return runtime.Undefined, err
		}
		return runtime.Str(r.formatTime(t, layout, local)), nil
	}
}

func (r *registry) formatTime(t float64, layout string, local bool) string {
	if math.IsNaN(t) {
		return invalidDate
	}
	tm := time.UnixMilli(int64(t)).UTC()
	if local {
		tm = tm.In(r.loc)
	}
	return tm.Format(layout)
}

// localTime converts a UTC time value to local time using the offset in
// effect at that instant.
func (r *registry) localTime(t float64) float64 {
	return t + r.offsetAt(t)
}

// utc is the inverse of localTime, resolving the offset at the local
// instant's approximate UTC position.
func (r *registry) utc(t float64) float64 {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return math.NaN()
	}
	return t - r.offsetAt(t-r.offsetAt(t))
}

func (r *registry) offsetAt(t float64) float64 {
	if math.IsNaN(t) || math.Abs(t) > 2*maxTime {
		return 0
	}
	_, off := time.UnixMilli(int64(t)).In(r.loc).Zone()
	return float64(off) * msPerSecond
}

func timeClip(t float64) float64 {
	if math.IsNaN(t) || math.IsInf(t, 0) || math.Abs(t) > maxTime {
		return math.NaN()
	}
	return runtime.IntegerOf(t) + 0
}

func posMod(a, b float64) float64 {
	m := math.Mod(a, b)
	if m < 0 {
		m += b
	}
	return m
}

func day(t float64) float64           { return math.Floor(t / msPerDay) }
func timeWithinDay(t float64) float64 { return posMod(t, msPerDay) }
func weekDay(t float64) float64       { return posMod(day(t)+4, 7) }
func hourFromTime(t float64) float64  { return posMod(math.Floor(t/msPerHour), 24) }
func minFromTime(t float64) float64   { return posMod(math.Floor(t/msPerMinute), 60) }
func secFromTime(t float64) float64   { return posMod(math.Floor(t/msPerSecond), 60) }
func msFromTime(t float64) float64    { return posMod(t, msPerSecond) }

func dayFromYear(y float64) float64 {
	return 365*(y-1970) + math.Floor((y-1969)/4) - math.Floor((y-1901)/100) + math.Floor((y-1601)/400)
}

func timeFromYear(y float64) float64 { return msPerDay * dayFromYear(y) }

func yearFromTime(t float64) float64 {
	y := math.Floor(t/(msPerDay*365.2425)) + 1970
	for timeFromYear(y) > t {
		y--
	}
	for timeFromYear(y+1) <= t {
		y++
	}
	return y
}

func isLeapYear(y float64) bool {
	return math.Mod(y, 4) == 0 && (math.Mod(y, 100) != 0 || math.Mod(y, 400) == 0)
}

var cumulativeDays = [13]float64{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334, 365}

// monthStart is the day within the year on which month m begins.
func monthStart(m int, leap bool) float64 {
	d := cumulativeDays[m]
	if leap && m >= 2 {
		d++
	}
	return d
}

func dayWithinYear(t float64) float64 { return day(t) - dayFromYear(yearFromTime(t)) }

func monthFromTime(t float64) float64 {
	d, leap := dayWithinYear(t), isLeapYear(yearFromTime(t))
	m := 0
	for m < 11 && d >= monthStart(m+1, leap) {
		m++
	}
	return float64(m)
}

func dateFromTime(t float64) float64 {
	m := int(monthFromTime(t))
	return dayWithinYear(t) - monthStart(m, isLeapYear(yearFromTime(t))) + 1
}

func isFinite(fs ...float64) bool {
	for _, f := range fs {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func makeTime(h, m, s, ms float64) float64 {
	if !isFinite(h, m, s, ms) {
		return math.NaN()
	}
	return runtime.IntegerOf(h)*msPerHour + runtime.IntegerOf(m)*msPerMinute +
		runtime.IntegerOf(s)*msPerSecond + runtime.IntegerOf(ms)
}

func makeDay(year, month, date float64) float64 {
	if !isFinite(year, month, date) {
		return math.NaN()
	}
	y, m, dt := runtime.IntegerOf(year), runtime.IntegerOf(month), runtime.IntegerOf(date)
	ym := y + math.Floor(m/12)
	if math.Abs(ym) > 400000 {
		return math.NaN()
	}
	mn := int(posMod(m, 12))
	return dayFromYear(ym) + monthStart(mn, isLeapYear(ym)) + dt - 1
}

func makeDate(day, t float64) float64 {
	if !isFinite(day, t) {
		return math.NaN()
	}
	return day*msPerDay + t
}

func decomposeTime(t float64) [numDateFields]float64 {
	return [numDateFields]float64{
		yearFromTime(t), monthFromTime(t), dateFromTime(t),
		hourFromTime(t), minFromTime(t), secFromTime(t), msFromTime(t),
	}
}

func composeFields(f [numDateFields]float64) float64 {
	return makeDate(
		makeDay(f[fieldYear], f[fieldMonth], f[fieldDate]),
		makeTime(f[fieldHours], f[fieldMinutes], f[fieldSeconds], f[fieldMillis]),
	)
}

// isoDatePattern is the Date Time String Format, with date-only and
// time-less forms.
var isoDatePattern = regexp2.MustCompile(
	`^([+-]\d{6}|\d{4})(?:-(\d{2})(?:-(\d{2}))?)?`+
		`(?:T(\d{2}):(\d{2})(?::(\d{2})(?:\.(\d{1,3})\d*)?)?(Z|[+-]\d{2}:\d{2})?)?$`,
	regexp2.None)

// fallbackLayouts are the toString and toUTCString forms plus common
// variants. Layouts without a zone are read as local time.
var fallbackLayouts = []struct {
	layout string
	local  bool
}{
	{"Mon Jan 02 2006 15:04:05 GMT-0700", false},
	{"Mon, 02 Jan 2006 15:04:05 GMT", false},
	{time.RFC1123Z, false},
	{time.RFC1123, false},
	{"Mon Jan 02 2006 15:04:05", true},
	{"Mon Jan 02 2006", true},
	{"Jan 2, 2006 15:04:05", true},
	{"Jan 2, 2006", true},
	{"2006/01/02 15:04:05", true},
	{"2006/01/02", true},
}

// parseDate returns NaN for strings it does not recognise.
func (r *registry) parseDate(s string) float64 {
	s = runtime.TrimWhiteSpace(s)
	if t, ok := parseISODate(s); ok {
		return t
	}
	if i := strings.LastIndex(s, " ("); i > 0 && strings.HasSuffix(s, ")") {
		s = s[:i]
	}
	for _, f := range fallbackLayouts {
		loc := time.UTC
		if f.local {
			loc = r.loc
		}
		if tm, err := time.ParseInLocation(f.layout, s, loc); err == nil {
			return timeClip(float64(tm.UnixMilli()))
		}
	}
	return math.NaN()
}

func parseISODate(s string) (float64, bool) {
	m, err := isoDatePattern.FindStringMatch(s)
	if err != nil || m == nil {
		return 0, false
	}
	group := func(i int, def float64) float64 {
		g := m.GroupByNumber(i)
		if g == nil || len(g.Captures) == 0 {
			return def
		}
		n, _ := strconv.ParseFloat(g.String(), 64)
		return n
	}
	year := group(1, 0)
	month, date := group(2, 1), group(3, 1)
	hour, minute, sec := group(4, 0), group(5, 0), group(6, 0)
	ms := 0.0
	if g := m.GroupByNumber(7); g != nil && len(g.Captures) > 0 {
		frac := g.String()
		n, _ := strconv.ParseFloat(frac, 64)
		ms = n * math.Pow(10, float64(3-len(frac)))
	}
	if month < 1 || month > 12 || date < 1 || date > 31 ||
		hour > 24 || minute > 59 || sec > 59 ||
		hour == 24 && (minute > 0 || sec > 0 || ms > 0) {
		return 0, false
	}
	if g := m.GroupByNumber(1); g.String() == "-000000" {
		return 0, false
	}
	days := makeDay(year, month-1, date)
	if dateFromTime(days*msPerDay) != date {
		return math.NaN(), true
	}
	t := makeDate(days, makeTime(hour, minute, sec, ms))
	if g := m.GroupByNumber(8); g != nil && len(g.Captures) > 0 && g.String() != "Z" {
		zone := g.String()
		h, _ := strconv.Atoi(zone[1:3])
		mi, _ := strconv.Atoi(zone[4:6])
		off := float64(h)*msPerHour + float64(mi)*msPerMinute
		if zone[0] == '+' {
			off = -off
		}
		t += off
	}
	return timeClip(t), true
}
