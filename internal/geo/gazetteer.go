package geo

// Entry maps a Hebrew phrase to a canonical English neighborhood.
type Entry struct {
	Phrase       string
	Neighborhood string
}

// ambiguousStreets span several neighborhoods and never decide one alone.
var ambiguousStreets = []string{
	"בן יהודה", "דיזנגוף", "אבן גבירול", "אלנבי", "הרצל", "יפת",
	"הירקון", "שלמה", "שלום עליכם", "יהודה המכבי", "ויצמן",
	"נמיר", "דרך ההגנה", "דרך יפו", "לה גוארדיה", "המסגר", "דרך בגין",
	"שדרות ירושלים", `שדרות ח"ן`, "דרך נמיר",
}

// landmarks are strong signals wherever they appear in the post.
var landmarks = []Entry{
	{"שוק הפשפשים", "Jaffa D"},
	{"מגדל השעון", "Jaffa D"},
	{"נמל יפו", "Jaffa D"},
	{"יפו העתיקה", "Old Jaffa"},
	{"דיזנגוף סנטר", "Lev Tel Aviv (City Center)"},
	{"כיכר הבימה", "Lev Tel Aviv (City Center)"},
	{"שדרות רוטשילד", "Lev Tel Aviv (City Center)"},
	{"גן החשמל", "Lev Tel Aviv (City Center)"},
	{"כיכר רבין", "Lev Tel Aviv (City Center)"},
	{"שוק הכרמל", "Kerem HaTeimanim"},
	{"שוק לוינסקי", "Florentin"},
	{"חוף גורדון", "The Old North"},
	{"חוף פרישמן", "The Old North"},
	{"נורדאו", "The Old North"},
	{"מלון הילטון", "The Old North"},
	{"נמל תל אביב", "Kochav HaTzafon"},
	{"תחנת רידינג", "Kochav HaTzafon"},
	{"חוף תל ברוך", "Tel Baruch"},
	{"עזריאלי", "HaKirya"},
	{"שרונה", "HaKirya"},
	{"שוק התקווה", "HaTikva"},
}

// synonyms are explicit neighborhood mentions. Longer phrases come before
// the phrases they contain.
var synonyms = []Entry{
	{"לב תל אביב", "Lev Tel Aviv (City Center)"},
	{"לב העיר", "Lev Tel Aviv (City Center)"},
	{"מרכז תל אביב", "Lev Tel Aviv (City Center)"},
	{"הצפון הישן", "The Old North"},
	{"הצפון החדש", "The New North"},
	{"רמת החייל", "Ramat HaHayal"},
	{"שוק הכרמל", "Kerem HaTeimanim"},
	{"כרם התימנים", "Kerem HaTeimanim"},
	{"שוק לוינסקי", "Florentin"},
	{"פלורנטין", "Florentin"},
	{"נחלת בנימין", "Nachalat Binyamin"},
	{"גבעת עלייה", "Givat Aliya"},
	{"גבעת אנדרומדה", "Givat Andromeda"},
	{"יפה נוף", "Yafe Nof (Jaffa)"},
	{"יפו העתיקה", "Old Jaffa"},
	{"הקריה", "HaKirya"},
	{"כוכב הצפון", "Kochav HaTzafon"},
	{"פארק צמרת", "Park Tzameret"},
	{"נווה צדק", "Neve Tzedek"},
	{"נווה שאנן", "Neve Shaanan"},
	{"נווה שרת", "Neve Sharett"},
	{"נווה אביבים", "Neve Avivim"},
	{"נווה עופר", "Neve Ofer"},
	{"רמת אביב ג", "Ramat Aviv G"},
	{"רמת אביב", "Ramat Aviv"},
	{"נאות אפקה", "Neot Afeka"},
	{"שיכון דן", "Shikun Dan"},
	{"בבלי", "Shikun Bavli"},
	{"התקווה", "HaTikva"},
	{"יד אליהו", "Yad Eliyahu"},
	{"קריית מאיר", "Kiryat Meir"},
	{"מונטיפיורי", "Montefiore"},
	{"קריית המלאכה", "Kiryat HaMelekha"},
	{"קריית שלום", "Kiryat Shalom"},
	{"קריית שאול", "Kiryat Shaul"},
	{"שפירא", "Shapira"},
	{"צהלון", "Tzahal On"},
	{"צהלה", "Tzahala"},
	{"תל ברוך", "Tel Baruch"},
	{"כפר שלם", "Kfar Shalem"},
}

// streets are anchor streets that sit inside a single neighborhood. They
// only match the address field, optionally followed by a house number.
var streets = []Entry{
	// Jaffa
	{"יהודה הימית", "Tzahal On"},
	{"אבו נבוט", "Tzahal On"},
	{"מעפילי אגוז", "Tzahal On"},
	{"שלבים", "Tzahal On"},
	{"בית אשל", "Tzahal On"},
	{"נגה", "Tzahal On"},
	{"עולי ציון", "Jaffa D"},
	{"רזיאל", "Jaffa D"},
	{"נחום גולדמן", "Jaffa D"},
	{"אילת", "Jaffa D"},
	{"יפת 241", "Givat Aliya"},
	{"עלי עלייה", "Givat Aliya"},
	{"יפה נוף", "Yafe Nof (Jaffa)"},
	{"אבו כביר", "Abu Kabir"},

	// Florentin
	{"לוינסקי", "Florentin"},
	{"ויטל", "Florentin"},
	{"פרנקל", "Florentin"},
	{"בר יוחאי", "Florentin"},
	{"הרצל 90", "Florentin"},
	{"קויניגסברג", "Florentin"},
	{"חבשוש", "Florentin"},

	// City center, Kerem HaTeimanim, Nachalat Binyamin
	{"קרליבך", "Lev Tel Aviv (City Center)"},
	{"שמרלינג", "Lev Tel Aviv (City Center)"},
	{"בוגרשוב", "Lev Tel Aviv (City Center)"},
	{"שדרות רוטשילד", "Lev Tel Aviv (City Center)"},
	{"אחד העם", "Lev Tel Aviv (City Center)"},
	{"לילינבלום", "Lev Tel Aviv (City Center)"},
	{"נחלת בנימין", "Nachalat Binyamin"},
	{"הכרמל", "Kerem HaTeimanim"},
	{"הילל הזקן", "Kerem HaTeimanim"},

	// Neve Tzedek
	{"שבזי", "Neve Tzedek"},
	{"אהרון שלוש", "Neve Tzedek"},
	{"שלוש", "Neve Tzedek"},
	{"אמזלג", "Neve Tzedek"},
	{"עזרא הסופר", "Neve Tzedek"},

	// Old North
	{"בן גוריון", "The Old North"},
	{"ז'בוטינסקי", "The Old North"},
	{"ארלוזורוב", "The Old North"},
	{"אוסישקין", "The Old North"},
	{"ירמיהו", "The Old North"},
	{"יהושע בן נון", "The Old North"},
	{"דוד המלך", "The Old North"},
	{"אורי", "The Old North"},

	// Port
	{"יורדי הסירה", "Kochav HaTzafon"},
	{"שמעון התרסי", "Kochav HaTzafon"},

	// North
	{"הברזל", "Ramat HaHayal"},
	{"ראול ולנברג", "Ramat HaHayal"},
	{"שטרית", "Ramat HaHayal"},
	{"החייל", "Ramat HaHayal"},
	{"איינשטיין", "Ramat Aviv"},
	{"ברודצקי", "Ramat Aviv"},
	{"חליוה", "Ramat Aviv"},
	{"דולב", "Neve Avivim"},
	{"קהילת ורשה", "Neve Sharett"},
	{"אהוד", "Neot Afeka"},
	{"משה סנה", "Neot Afeka"},
	{"אבא אחימאיר", "Lamed"},
	{"חנה רובינא", "Afeka"},
	{"רות", "Afeka"},
	{"תל ברוך", "Tel Baruch"},
	{"יצחק שדה", "Park Tzameret"},
	{"בבלי", "Shikun Bavli"},

	// Montefiore and the old industrial zone
	{"תובל", "Montefiore"},
	{"המלאכה", "Montefiore"},
	{"פלוגת הכותל", "Montefiore"},

	// East and south-east
	{"הברון הירש", "HaTikva"},
	{`האצ"ל`, "HaTikva"},
	{"נחלת יצחק", "Nachalat Yitzhak"},
	{"דרך הטייסים", "Ramat HaTayasim"},
	{"גולומב", "Yad Eliyahu"},
	{"הגליל", "Yad Eliyahu"},
	{"לה גארדיה", "Yad Eliyahu"},
	{"מבצע קדש", "Yad Eliyahu"},
	{"שאול המלך", "HaKirya"},
	{"מרמורק", "HaKirya"},
	{`הלח"י`, "Shapira"},
	{"מסילת וולפסון", "Shapira"},
	{"סעדיה גאון", "Neve Shaanan"},
	{"נווה שאנן", "Neve Shaanan"},
	{"השומר", "Neve Shaanan"},
	{"הפנחס", "Kiryat Shalom"},
}

// AmbiguousStreets returns a copy of the multi-neighborhood street list.
func AmbiguousStreets() []string {
	out := make([]string, len(ambiguousStreets))
	copy(out, ambiguousStreets)
	return out
}

// Landmarks returns a copy of the landmark table.
func Landmarks() []Entry { return copyEntries(landmarks) }

// Streets returns a copy of the anchor street table.
func Streets() []Entry { return copyEntries(streets) }

// Synonyms returns a copy of the explicit neighborhood alias table.
func Synonyms() []Entry { return copyEntries(synonyms) }

func copyEntries(in []Entry) []Entry {
	out := make([]Entry, len(in))
	copy(out, in)
	return out
}
