package horoscope

type monthDay struct {
	month int
	day   int
}

func (m monthDay) before(o monthDay) bool {
	if m.month != o.month {
		return m.month < o.month
	}
	return m.day < o.day
}

type signRange struct {
	sign  string
	start monthDay
	end   monthDay
}

var signRanges = []signRange{
	{"山羊座", monthDay{12, 22}, monthDay{1, 19}},
	{"水瓶座", monthDay{1, 20}, monthDay{2, 18}},
	{"魚座", monthDay{2, 19}, monthDay{3, 20}},
	{"牡羊座", monthDay{3, 21}, monthDay{4, 19}},
	{"牡牛座", monthDay{4, 20}, monthDay{5, 20}},
	{"双子座", monthDay{5, 21}, monthDay{6, 21}},
	{"蟹座", monthDay{6, 22}, monthDay{7, 22}},
	{"獅子座", monthDay{7, 23}, monthDay{8, 22}},
	{"乙女座", monthDay{8, 23}, monthDay{9, 22}},
	{"天秤座", monthDay{9, 23}, monthDay{10, 23}},
	{"蠍座", monthDay{10, 24}, monthDay{11, 22}},
	{"射手座", monthDay{11, 23}, monthDay{12, 21}},
}

// Sign returns the zodiac sign for a birth month and day.
func Sign(month, day int) (string, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	md := monthDay{month, day}
	for _, r := range signRanges {
		if r.end.before(r.start) {
			// wraps the new year
			if !md.before(r.start) || !r.end.before(md) {
				return r.sign, true
			}
			continue
		}
		if !md.before(r.start) && !r.end.before(md) {
			return r.sign, true
		}
	}
	return "", false
}
