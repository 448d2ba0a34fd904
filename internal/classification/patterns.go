package classification

import "github.com/Veraticus/xpentrik/internal/model"

// ExtractPattern is one candidate regex for an extraction facet. Patterns are
// tried in listed order and the first match wins; more specific patterns must
// be listed before generic fallbacks.
type ExtractPattern struct {
	Name  string
	Regex string
}

// DefaultAmountPatterns returns the ordered amount extraction cascade.
// Capture group 1 is the numeric amount, possibly with thousands separators.
func DefaultAmountPatterns() []ExtractPattern {
	return []ExtractPattern{
		{
			Name:  "currency-prefixed",
			Regex: `(?:Rs\.?|INR|₹)\s*([0-9,]+(?:\.[0-9]{1,2})?)`,
		},
		{
			Name:  "action-keyword",
			Regex: `(?:amount|amt|debited|credited|spent|paid|received|transferred)\s*(?:of|:)?\s*(?:Rs\.?|INR|₹)?\s*([0-9,]+(?:\.[0-9]{1,2})?)`,
		},
		{
			Name:  "currency-suffixed",
			Regex: `([0-9,]+(?:\.[0-9]{1,2})?)\s*(?:Rs\.?|INR|₹)`,
		},
		{
			Name:  "transaction-of",
			Regex: `(?:debit|credit|txn|transaction)\s*(?:of|:)?\s*(?:Rs\.?|INR|₹)?\s*([0-9,]+(?:\.[0-9]{1,2})?)`,
		},
	}
}

// DefaultMerchantPatterns returns the ordered merchant/counterparty cascade.
func DefaultMerchantPatterns() []ExtractPattern {
	return []ExtractPattern{
		{
			Name:  "spent-at",
			Regex: `(?:spent|purchase of)\s+.{0,60}?\s+at\s+([A-Za-z0-9\s&\-.]+?)(?:\s+on|\s+ref|\.|$)`,
		},
		{
			Name:  "preposition",
			Regex: `(?:at|to|from|@)\s+([A-Za-z0-9\s&\-.]+?)(?:\s+on|\s+ref|\s+UPI|\.|$)`,
		},
		{
			Name:  "payment-phrase",
			Regex: `(?:paid to|sent to|received from|transferred to)\s+([A-Za-z0-9\s&\-.]+?)(?:\s+on|\s+ref|\.|$)`,
		},
		{
			Name:  "vpa",
			Regex: `VPA\s+([a-zA-Z0-9@.\-]+)`,
		},
		{
			Name:  "upi-tag",
			Regex: `UPI:([A-Za-z0-9\s&\-.@]+?)(?:\s+on|\s+ref|\.|$)`,
		},
	}
}

// DefaultCardPatterns returns the ordered account/card suffix cascade.
// Capture group 1 is always exactly four digits.
func DefaultCardPatterns() []ExtractPattern {
	return []ExtractPattern{
		{
			Name:  "masked-suffix",
			Regex: `(?:card|a/c|ac|acct|account)\s*(?:no\.?|number|#|ending|xx)?\s*[xX*]+([0-9]{4})`,
		},
		{
			Name:  "leading-digits",
			Regex: `([0-9]{4})[xX*]+[0-9]*\s*(?:card|a/c)`,
		},
		{
			Name:  "unmasked-suffix",
			Regex: `(?:card|a/c)\s+([0-9]{4})\b`,
		},
	}
}

// Direction keyword families. Matched by case-insensitive substring search.
var (
	debitKeywords = []string{
		"debited", "debit", "spent", "paid", "withdrawn", "purchase",
		"payment", "sent", "transferred", "deducted", "charged",
	}
	creditKeywords = []string{
		"credited", "credit", "received", "refund", "cashback",
		"deposited", "added", "reversed",
	}
)

// bankSenders are sender-ID fragments of known banks and payment services.
var bankSenders = []string{
	"HDFCBK", "ICICIB", "SBIINB", "AXISBK", "KOTAKB", "PNBSMS",
	"BOIIND", "CANBNK", "UNIONB", "IABORB", "YESBNK", "INDUSB",
	"PAYTMB", "GPAY", "PHONPE", "AMAZONP", "JIOMNY", "CRED",
	"SLICE", "LAZYPAY", "SIMPL", "BHARPE", "MOBIKWI", "FREECHARGE",
}

// bankTokens are generic in-body markers that make an unrecognized sender
// still count as a banking signal.
var bankTokens = []string{"bank", "card", "a/c", "upi"}

// CategoryRule maps a category to its trigger keywords. Rules are evaluated
// in declared order; the first rule with any keyword hit wins.
type CategoryRule struct {
	ID       model.CategoryID
	Keywords []string
}

// DefaultCategoryRules returns the ordered category keyword map.
func DefaultCategoryRules() []CategoryRule {
	return []CategoryRule{
		{ID: model.CategoryFood, Keywords: []string{
			"swiggy", "zomato", "restaurant", "cafe", "food", "pizza", "burger",
			"dominos", "mcdonalds", "kfc", "starbucks", "dunkin", "subway",
			"biryani", "kitchen",
		}},
		{ID: model.CategoryTransport, Keywords: []string{
			"uber", "ola", "rapido", "metro", "railway", "irctc", "petrol",
			"diesel", "fuel", "parking", "toll", "fastag", "cab", "auto",
		}},
		{ID: model.CategoryShopping, Keywords: []string{
			"amazon", "flipkart", "myntra", "ajio", "nykaa", "meesho",
			"snapdeal", "shopclues", "mall", "store", "mart", "retail",
		}},
		{ID: model.CategoryBills, Keywords: []string{
			"electricity", "water", "gas", "broadband", "wifi", "internet",
			"mobile", "recharge", "dth", "tatasky", "airtel", "jio", "vi ",
			"bsnl", "bill",
		}},
		{ID: model.CategoryEntertainment, Keywords: []string{
			"netflix", "prime", "hotstar", "spotify", "gaana", "youtube",
			"movie", "pvr", "inox", "cinema", "bookmyshow", "game",
		}},
		{ID: model.CategoryHealth, Keywords: []string{
			"pharmacy", "medical", "hospital", "clinic", "doctor", "apollo",
			"medplus", "1mg", "pharmeasy", "netmeds", "healthkart",
		}},
		{ID: model.CategoryGroceries, Keywords: []string{
			"bigbasket", "grofers", "blinkit", "zepto", "instamart", "dmart",
			"reliance", "more", "grocery", "supermarket", "vegetables", "fruits",
		}},
		{ID: model.CategoryTransfer, Keywords: []string{
			"transfer", "sent to", "neft", "imps", "rtgs", "upi",
		}},
		{ID: model.CategoryATM, Keywords: []string{
			"atm", "withdrawal", "cash withdrawal", "withdrawn",
		}},
	}
}
