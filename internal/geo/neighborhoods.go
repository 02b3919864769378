package geo

import "strings"

// Neighborhood pairs a canonical English identifier with the Hebrew name
// shown to users.
type Neighborhood struct {
	EN string
	HE string
}

// canon is the closed list of Tel Aviv-Yafo neighborhoods. It must not be
// modified at runtime.
var canon = []Neighborhood{
	// Center
	{"Lev Tel Aviv (City Center)", "לב תל אביב"},
	{"The Old North", "הצפון הישן"},
	{"The New North", "הצפון החדש"},
	{"Park Tzameret", "פארק צמרת"},
	{"Kiryat Meir", "קריית מאיר"},
	{"Montefiore", "מונטיפיורי"},
	{"Nordia", "נורדיה"},
	{"Nachalat Binyamin", "נחלת בנימין"},
	{"Kerem HaTeimanim", "כרם התימנים"},
	{"Tel Nordau", "תל נורדאו"},
	{"Tel Haim", "תל חיים"},
	{"Tel Baruch", "תל ברוך"},
	{"Kochav HaTzafon", "כוכב הצפון"},
	{"HaKirya", "הקריה"},

	// Jaffa
	{"Jaffa A", "יפו א"},
	{"Givat Andromeda", "גבעת אנדרומדה"},
	{"Givat Aliya", "גבעת עלייה"},
	{"Yafe Nof (Jaffa)", "יפה נוף"},
	{"Jaffa G", "יפו ג'"},
	{"Jaffa D", "יפו ד'"},
	{"Old Jaffa", "יפו העתיקה"},
	{"Manshiya (Jaffa)", "מנשייה (יפו)"},
	{"Neve Shalom", "נווה שלום"},
	{"Sakanat Al-Turki", "סכנת א-תורכי"},
	{"Pardes Daka", "פרדס דכה"},
	{"Tzahal On", "צהלון"},
	{"Shikuney Chisachon", "שיכוני חיסכון"},

	// South and east
	{"Florentin", "פלורנטין"},
	{"Shapira", "שפירא"},
	{"HaArgazim", "הארגזים"},
	{"HaTikva", "התקווה"},
	{"Yad Eliyahu", "יד אליהו"},
	{"Kiryat Shalom", "קריית שלום"},
	{"Kiryat HaMelekha", "קריית המלאכה"},
	{"Neve Shaanan", "נווה שאנן"},
	{"Ezra", "עזרא"},
	{"Revivim", "רביבים"},
	{"Abu Kabir", "אבו כביר"},
	{"Givat Herzl", "גבעת הרצל"},
	{"HaMishtala", "המשתלה"},

	{"Neve Tzedek", "נווה צדק"},
	{"Neve Ofer", "נווה עופר"},
	{"Neve Barbur", "נווה ברבור"},
	{"Neve Chen", "נווה חן"},
	{"Neve Kfir", "נווה כפיר"},
	{"Neve Eliezer", "נווה אליעזר"},
	{"Neve Sharett", "נווה שרת"},
	{"Neve Avivim", "נווה אביבים"},
	{"Neve Tzahal", `נווה צה"ל`},

	{"Ramat Aviv", "רמת אביב"},
	{"Ramat Aviv G", "רמת אביב ג'"},
	{"Ramat HaHayal", "רמת החייל"},
	{"Ramat HaTayasim", "רמת הטייסים"},
	{"Ramat Yisrael", "רמת ישראל"},

	// North
	{"Afeka", "אפקה"},
	{"Neot Afeka", "נאות אפקה"},
	{"Maoz Aviv", "מעוז אביב"},
	{"Lamed", "למד"},
	{"Nofei Yam", "נופי ים"},
	{"Azorei Hen", "אזורי חן"},
	{"Shikun Dan", "שיכון דן"},
	{"Shikun Bavli", "שיכון בבלי"},
	{"Shikun Tzameret", "שיכון צמרת"},
	{"Kiryat Shaul", "קריית שאול"},
	{"Tzahala", "צהלה"},

	{"Merkaz Ba'alei Melacha", "מרכז בעלי מלאכה"},
	{"Merkaz Miskhari", "מרכז מסחרי"},

	{"Bitzaron", "ביצרון"},
	{"Nachalat Yitzhak", "נחלת יצחק"},
	{"Kfar Shalem", "כפר שלם"},
	{"Yedidya", "ידידיה"},
	{"Ahuva", "אחווה"},
	{"Givat Amal B", "גבעת עמל ב'"},
	{"Ohel Moshe", "אוהל משה"},

	{"Ofek HaYam", "אופק הים"},
	{"Orot", "אורות"},
	{"Yarkon Industrial Zone", "אזור תעשייה עבר הירקון"},
	{"Kerem Yisrael", "כרם ישראל"},
	{"Kerem Moshe", "כרם משה"},
	{"Shpak", "שפאק"},
	{"Pakidei Apak", `פקידי אפ"ק`},
}

var (
	heByEN = make(map[string]string, len(canon))
	enByHE = make(map[string]string, len(canon))
)

func init() {
	for _, n := range canon {
		heByEN[n.EN] = n.HE
		enByHE[n.HE] = n.EN
	}
}

// Canon returns a copy of the canonical neighborhood list.
func Canon() []Neighborhood {
	out := make([]Neighborhood, len(canon))
	copy(out, canon)
	return out
}

// HebrewName returns the display name of a canonical English identifier.
func HebrewName(en string) (string, bool) {
	he, ok := heByEN[en]
	return he, ok
}

// IsCanonical reports whether en is a canonical English identifier.
func IsCanonical(en string) bool {
	_, ok := heByEN[en]
	return ok
}

// Canonicalize maps a model-produced neighborhood to its canonical English
// identifier. Only exact identifiers or exact Hebrew display names are
// accepted; anything else is off-list.
func Canonicalize(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if IsCanonical(v) {
		return v, true
	}
	if en, ok := enByHE[normalizeHebrew(v)]; ok {
		return en, true
	}
	return "", false
}
