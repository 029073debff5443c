package seeder

import (
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/Lumos-Labs-HQ/qsynth/internal/model"
)

const (
	asciiLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	upperLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	vinAlphabet  = "ABCDEFGHJKLMNPRSTUVWXYZ0123456789"
	dateLayout   = "2006-01-02"
)

var airports = []string{
	"ATL", "PEK", "LAX", "DXB", "HND", "ORD", "LHR", "PVG", "CDG", "DFW",
	"AMS", "FRA", "IST", "CAN", "JFK", "SIN", "DEN", "ICN", "BKK", "SFO",
	"MAD", "MUC", "SYD", "YYZ", "BCN", "WAW", "PRG", "VIE", "ZRH", "CPH",
}

var airlines = []struct {
	Code string
	Name string
}{
	{"AA", "American Airlines"},
	{"DL", "Delta Air Lines"},
	{"UA", "United Airlines"},
	{"LH", "Lufthansa"},
	{"AF", "Air France"},
	{"BA", "British Airways"},
	{"KL", "KLM Royal Dutch Airlines"},
	{"EK", "Emirates"},
	{"QR", "Qatar Airways"},
	{"SQ", "Singapore Airlines"},
	{"LO", "LOT Polish Airlines"},
	{"TK", "Turkish Airlines"},
	{"FR", "Ryanair"},
	{"U2", "easyJet"},
	{"NH", "All Nippon Airways"},
}

// ibanLengths holds the BBAN length per country; other countries fall back to DE.
var ibanLengths = map[string]int{
	"DE": 18, "GB": 18, "FR": 23, "ES": 20, "IT": 23, "NL": 14,
	"PL": 24, "CZ": 20, "AT": 16, "CH": 17, "BE": 12, "SE": 20,
}

func invalidParam(typ, param string, format string, args ...any) error {
	return &InvalidParameterError{Type: typ, Param: param, Reason: fmt.Sprintf(format, args...)}
}

// rangeBounds decodes min/max with defaults and enforces min <= max.
func rangeBounds(typ string, params model.Params, defMin, defMax float64) (float64, float64, error) {
	rp, err := params.Range()
	if err != nil {
		return 0, 0, &InvalidParameterError{Type: typ, Reason: err.Error()}
	}
	lo, hi := defMin, defMax
	if rp.Min != nil {
		lo = *rp.Min
	}
	if rp.Max != nil {
		hi = *rp.Max
	}
	if lo > hi {
		return 0, 0, invalidParam(typ, "min", "min (%v) cannot be greater than max (%v)", lo, hi)
	}
	return lo, hi, nil
}

func newRandomInt(ctx *GenContext, params model.Params) (Producer, error) {
	lo, hi, err := rangeBounds("random_int", params, 0, 9999)
	if err != nil {
		return nil, err
	}
	from, to := int64(math.Ceil(lo)), int64(math.Floor(hi))
	if from > to {
		return nil, invalidParam("random_int", "min", "no integer between %v and %v", lo, hi)
	}
	return func() (any, error) {
		return from + ctx.Rand.Int63n(to-from+1), nil
	}, nil
}

func newRandomDouble(ctx *GenContext, params model.Params) (Producer, error) {
	lo, hi, err := rangeBounds("random_double", params, 0, 1000)
	if err != nil {
		return nil, err
	}
	return func() (any, error) {
		return lo + ctx.Rand.Float64()*(hi-lo), nil
	}, nil
}

func newRandomDigit(ctx *GenContext, _ model.Params) (Producer, error) {
	return func() (any, error) {
		return int64(ctx.Rand.Intn(10)), nil
	}, nil
}

// newBoolean honours chance_of_getting_true, a percentage defaulting to 50.
func newBoolean(ctx *GenContext, params model.Params) (Producer, error) {
	chance := params.Int("chance_of_getting_true", 50)
	if chance < 0 || chance > 100 {
		return nil, invalidParam("boolean", "chance_of_getting_true", "must be between 0 and 100, got %d", chance)
	}
	return func() (any, error) {
		return ctx.Rand.Intn(100) < chance, nil
	}, nil
}

func newRandomElement(ctx *GenContext, params model.Params) (Producer, error) {
	cp, err := params.Choice()
	if err != nil {
		return nil, &InvalidParameterError{Type: "random_element", Param: "elements", Reason: err.Error()}
	}
	if len(cp.Elements) == 0 {
		return nil, &EmptyChoiceSetError{Type: "random_element"}
	}
	elements := make([]any, len(cp.Elements))
	for i, e := range cp.Elements {
		elements[i] = normalize(e)
	}
	return func() (any, error) {
		return elements[ctx.Rand.Intn(len(elements))], nil
	}, nil
}

func words(ctx *GenContext, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = ctx.Faker.Word()
	}
	return out
}

func sentence(ctx *GenContext, n int) string {
	s := strings.Join(words(ctx, n), " ")
	r := []rune(s)
	if len(r) > 0 {
		r[0] = unicode.ToUpper(r[0])
	}
	return string(r) + "."
}

func newSentence(ctx *GenContext, params model.Params) (Producer, error) {
	n := params.Int("nb_words", 6)
	if n < 1 {
		return nil, invalidParam("sentence", "nb_words", "must be positive, got %d", n)
	}
	return func() (any, error) {
		return sentence(ctx, n), nil
	}, nil
}

func newParagraph(ctx *GenContext, params model.Params) (Producer, error) {
	n := params.Int("nb_sentences", 3)
	if n < 1 {
		return nil, invalidParam("paragraph", "nb_sentences", "must be positive, got %d", n)
	}
	return func() (any, error) {
		out := make([]string, n)
		for i := range out {
			out[i] = sentence(ctx, 4+ctx.Rand.Intn(6))
		}
		return strings.Join(out, " "), nil
	}, nil
}

// pattern replaces '?' with a letter and '#' with a digit, as enabled.
func pattern(ctx *GenContext, text, letters string, lex, num bool) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, c := range text {
		switch {
		case lex && c == '?':
			b.WriteByte(letters[ctx.Rand.Intn(len(letters))])
		case num && c == '#':
			b.WriteByte(byte('0' + ctx.Rand.Intn(10)))
		case num && c == '%':
			b.WriteByte(byte('1' + ctx.Rand.Intn(9)))
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

func patternConstructor(typ, defText string, lex, num bool) Constructor {
	return func(ctx *GenContext, params model.Params) (Producer, error) {
		tp, err := params.Text()
		if err != nil {
			return nil, &InvalidParameterError{Type: typ, Reason: err.Error()}
		}
		text := tp.Text
		if text == "" {
			text = defText
		}
		letters := tp.Letters
		if letters == "" {
			letters = asciiLetters
		}
		return func() (any, error) {
			return pattern(ctx, text, letters, lex, num), nil
		}, nil
	}
}

var (
	newLexify   = patternConstructor("lexify", "????", true, false)
	newNumerify = patternConstructor("numerify", "###", false, true)
	newBothify  = patternConstructor("bothify", "## ??", true, true)
)

func parseDate(typ, param, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, invalidParam(typ, param, "expected YYYY-MM-DD, got %q", value)
	}
	return t, nil
}

// dateBounds resolves start/end, defaulting to [now-years, now].
func dateBounds(ctx *GenContext, typ string, params model.Params, years int) (time.Time, time.Time, error) {
	dp, err := params.DateRange()
	if err != nil {
		return time.Time{}, time.Time{}, &InvalidParameterError{Type: typ, Reason: err.Error()}
	}
	end := ctx.Now.UTC()
	start := end.AddDate(-years, 0, 0)
	if dp.Start != "" {
		if start, err = parseDate(typ, "start", dp.Start); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if dp.End != "" {
		if end, err = parseDate(typ, "end", dp.End); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, invalidParam(typ, "start", "start %s is after end %s",
			start.Format(dateLayout), end.Format(dateLayout))
	}
	return start, end, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dateProducer(ctx *GenContext, typ string, params model.Params, years int) (Producer, error) {
	start, end, err := dateBounds(ctx, typ, params, years)
	if err != nil {
		return nil, err
	}
	start, end = truncateDay(start), truncateDay(end)
	days := int64(end.Sub(start).Hours() / 24)
	return func() (any, error) {
		return start.AddDate(0, 0, int(ctx.Rand.Int63n(days+1))), nil
	}, nil
}

func newDate(ctx *GenContext, params model.Params) (Producer, error) {
	return dateProducer(ctx, "date", params, 50)
}

func newDateBetween(ctx *GenContext, params model.Params) (Producer, error) {
	return dateProducer(ctx, "date_between", params, 30)
}

func newDateTime(ctx *GenContext, params model.Params) (Producer, error) {
	start, end, err := dateBounds(ctx, "date_time", params, 50)
	if err != nil {
		return nil, err
	}
	span := int64(end.Sub(start) / time.Second)
	return func() (any, error) {
		t := start.Add(time.Duration(ctx.Rand.Int63n(span+1)) * time.Second)
		// a value at exact midnight would be typed as a date
		if KindOf(t) == KindDate {
			t = t.Add(time.Second)
		}
		return t, nil
	}, nil
}

func newYear(ctx *GenContext, params model.Params) (Producer, error) {
	lo, hi, err := rangeBounds("year", params, 1970, float64(ctx.Now.Year()))
	if err != nil {
		return nil, err
	}
	from, to := int64(lo), int64(hi)
	return func() (any, error) {
		return from + ctx.Rand.Int63n(to-from+1), nil
	}, nil
}

// newUUID4 reads from the model rng so ids are reproducible under a seed.
func newUUID4(ctx *GenContext, _ model.Params) (Producer, error) {
	return func() (any, error) {
		id, err := uuid.NewRandomFromReader(ctx.Rand)
		if err != nil {
			return nil, err
		}
		return id.String(), nil
	}, nil
}

func regionOf(locale string) string {
	region, _ := language.Make(locale).Region()
	if region.String() == "ZZ" {
		return "US"
	}
	return region.String()
}

func newCountryCode(ctx *GenContext, _ model.Params) (Producer, error) {
	codes := make([]string, len(ctx.Locales))
	for i, loc := range ctx.Locales {
		codes[i] = regionOf(loc)
	}
	return func() (any, error) {
		return codes[ctx.Rand.Intn(len(codes))], nil
	}, nil
}

func newLocale(ctx *GenContext, _ model.Params) (Producer, error) {
	return func() (any, error) {
		return ctx.Locales[ctx.Rand.Intn(len(ctx.Locales))], nil
	}, nil
}

func digits(ctx *GenContext, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('0' + ctx.Rand.Intn(10))
	}
	return string(b)
}

// ibanCheck computes the two ISO 13616 check digits for country+bban.
func ibanCheck(country, bban string) string {
	var numeric strings.Builder
	for _, c := range bban + country + "00" {
		if c >= 'A' && c <= 'Z' {
			numeric.WriteString(fmt.Sprint(int(c-'A') + 10))
		} else {
			numeric.WriteRune(c)
		}
	}
	n, _ := new(big.Int).SetString(numeric.String(), 10)
	mod := new(big.Int).Mod(n, big.NewInt(97)).Int64()
	return fmt.Sprintf("%02d", 98-mod)
}

// newIBAN produces a checksum-valid IBAN for the locale's country.
func newIBAN(ctx *GenContext, params model.Params) (Producer, error) {
	country := strings.ToUpper(params.String("country", regionOf(ctx.Locale())))
	length, ok := ibanLengths[country]
	if !ok {
		country, length = "DE", ibanLengths["DE"]
	}
	return func() (any, error) {
		bban := digits(ctx, length)
		return country + ibanCheck(country, bban) + bban, nil
	}, nil
}

func newTransactionID(ctx *GenContext, _ model.Params) (Producer, error) {
	return func() (any, error) {
		return "txn_" + digits(ctx, 15), nil
	}, nil
}

func newAirportIATA(ctx *GenContext, _ model.Params) (Producer, error) {
	return func() (any, error) {
		return airports[ctx.Rand.Intn(len(airports))], nil
	}, nil
}

func newAirline(ctx *GenContext, _ model.Params) (Producer, error) {
	return func() (any, error) {
		return airlines[ctx.Rand.Intn(len(airlines))].Name, nil
	}, nil
}

func newFlightNumber(ctx *GenContext, _ model.Params) (Producer, error) {
	return func() (any, error) {
		a := airlines[ctx.Rand.Intn(len(airlines))]
		return fmt.Sprintf("%s%d", a.Code, 1+ctx.Rand.Intn(9999)), nil
	}, nil
}

func newLicensePlate(ctx *GenContext, params model.Params) (Producer, error) {
	text := params.String("text", "???-####")
	return func() (any, error) {
		return pattern(ctx, text, upperLetters, true, true), nil
	}, nil
}

func newVIN(ctx *GenContext, _ model.Params) (Producer, error) {
	return func() (any, error) {
		b := make([]byte, 17)
		for i := range b {
			b[i] = vinAlphabet[ctx.Rand.Intn(len(vinAlphabet))]
		}
		return string(b), nil
	}, nil
}

func newTrackingNumber(ctx *GenContext, _ model.Params) (Producer, error) {
	return func() (any, error) {
		return "1Z" + digits(ctx, 12), nil
	}, nil
}

// sequence formats a counter starting at params.start (default 1). The
// producer is stateful: value n is produced by the n-th call, which is row n-1
// of the column it is bound to.
func sequence(typ, format string) Constructor {
	return func(ctx *GenContext, params model.Params) (Producer, error) {
		start := params.Int("start", 1)
		if start < 0 {
			return nil, invalidParam(typ, "start", "must not be negative, got %d", start)
		}
		next := start
		return func() (any, error) {
			v := fmt.Sprintf(format, next)
			next++
			return v, nil
		}, nil
	}
}

var (
	newSKU         = sequence("sku", "SKU-%06d")
	newOrderNumber = sequence("order_number", "ORD-%08d")
)
