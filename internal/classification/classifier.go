// Package classification turns raw bank/payment SMS text into structured
// transaction parses using ordered pattern cascades.
package classification

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/xpentrik/internal/model"
)

// AcceptThreshold is the minimum confidence score for a parse to count as a
// transaction. Scores are additive and uncapped; they are only ever compared
// against this threshold.
const AcceptThreshold = 30

// Confidence contributions per matched signal.
const (
	scoreAmount          = 30
	scoreDirectionSingle = 25
	scoreDirectionBoth   = 15
	scoreDirectionGuess  = 10
	scoreMerchant        = 15
	scoreCardSuffix      = 10
	scoreCategory        = 15
	scoreBankSignal      = 15
)

// minBodyLength is the shortest message worth classifying.
const minBodyLength = 10

// maxMerchantLength bounds extracted merchant text.
const maxMerchantLength = 50

type compiledPattern struct {
	regex *regexp.Regexp
	ExtractPattern
}

// Classifier extracts transaction details from SMS text. It is stateless
// after construction and safe for concurrent use.
type Classifier struct {
	amountPatterns   []compiledPattern
	merchantPatterns []compiledPattern
	cardPatterns     []compiledPattern
	categoryRules    []CategoryRule
}

// NewClassifier compiles the default pattern cascades.
func NewClassifier() (*Classifier, error) {
	amount, err := compilePatterns(DefaultAmountPatterns())
	if err != nil {
		return nil, err
	}
	merchant, err := compilePatterns(DefaultMerchantPatterns())
	if err != nil {
		return nil, err
	}
	card, err := compilePatterns(DefaultCardPatterns())
	if err != nil {
		return nil, err
	}

	return &Classifier{
		amountPatterns:   amount,
		merchantPatterns: merchant,
		cardPatterns:     card,
		categoryRules:    DefaultCategoryRules(),
	}, nil
}

func compilePatterns(patterns []ExtractPattern) ([]compiledPattern, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, p := range patterns {
		regexStr := p.Regex
		if !strings.HasPrefix(regexStr, "(?i)") {
			regexStr = "(?i)" + regexStr // Case-insensitive by default
		}
		regex, err := regexp.Compile(regexStr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern %s: %w", p.Name, err)
		}
		compiled = append(compiled, compiledPattern{
			ExtractPattern: p,
			regex:          regex,
		})
	}
	return compiled, nil
}

// Classify parses a single message. It never returns an error; anything it
// cannot understand degrades to a non-transaction parse.
func (c *Classifier) Classify(body, sender string, receivedAt time.Time) model.ParsedTransaction {
	result := model.ParsedTransaction{
		Direction:  model.DirectionUnknown,
		Category:   model.CategoryOther,
		RawMessage: body,
		Sender:     sender,
		Timestamp:  receivedAt,
	}

	if len(body) < minBodyLength {
		return result
	}

	lowerBody := strings.ToLower(body)
	upperSender := strings.ToUpper(sender)

	hasBankSignal := senderIsBank(upperSender) || containsAny(lowerBody, bankTokens)
	hasDebit := containsAny(lowerBody, debitKeywords)
	hasCredit := containsAny(lowerBody, creditKeywords)

	// Cheap gate before any regex work: most SMS are not financial.
	if !hasBankSignal && !hasDebit && !hasCredit {
		return result
	}

	// Amount is mandatory.
	for _, p := range c.amountPatterns {
		m := p.regex.FindStringSubmatch(body)
		if m == nil {
			continue
		}
		amount, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err == nil && amount > 0 {
			result.Amount = amount
			result.Confidence += scoreAmount
			break
		}
	}
	if !result.HasAmount() {
		return result
	}

	switch {
	case hasDebit && !hasCredit:
		result.Direction = model.DirectionDebit
		result.Confidence += scoreDirectionSingle
	case hasCredit && !hasDebit:
		result.Direction = model.DirectionCredit
		result.Confidence += scoreDirectionSingle
	case hasDebit && hasCredit:
		// Both keyword families present: whichever occurs first wins.
		if earliestIndex(lowerBody, debitKeywords) < earliestIndex(lowerBody, creditKeywords) {
			result.Direction = model.DirectionDebit
		} else {
			result.Direction = model.DirectionCredit
		}
		result.Confidence += scoreDirectionBoth
	default:
		// Bank signal only. Default to debit for expense tracking.
		result.Direction = model.DirectionDebit
		result.Confidence += scoreDirectionGuess
	}

	for _, p := range c.merchantPatterns {
		m := p.regex.FindStringSubmatch(body)
		if m == nil {
			continue
		}
		merchant := collapseWhitespace(strings.TrimSpace(m[1]))
		if len(merchant) > maxMerchantLength {
			merchant = merchant[:maxMerchantLength]
		}
		if len(merchant) > 2 {
			result.Merchant = merchant
			result.Confidence += scoreMerchant
			break
		}
	}

	for _, p := range c.cardPatterns {
		m := p.regex.FindStringSubmatch(body)
		if m != nil {
			result.CardLast4 = m[1]
			result.Confidence += scoreCardSuffix
			break
		}
	}

	searchText := lowerBody + " " + strings.ToLower(result.Merchant)
	for _, rule := range c.categoryRules {
		if containsAny(searchText, rule.Keywords) {
			result.Category = rule.ID
			result.Confidence += scoreCategory
			break
		}
	}

	if hasBankSignal {
		result.Confidence += scoreBankSignal
	}

	result.IsTransaction = result.HasAmount() &&
		result.Direction != model.DirectionUnknown &&
		result.Confidence >= AcceptThreshold

	return result
}

func senderIsBank(upperSender string) bool {
	for _, bank := range bankSenders {
		if strings.Contains(upperSender, bank) {
			return true
		}
	}
	return false
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

// earliestIndex returns the smallest index at which any keyword occurs, or
// the length of the text when none do.
func earliestIndex(text string, keywords []string) int {
	earliest := len(text)
	for _, kw := range keywords {
		if idx := strings.Index(text, kw); idx >= 0 && idx < earliest {
			earliest = idx
		}
	}
	return earliest
}

var whitespaceRun = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return whitespaceRun.ReplaceAllString(s, " ")
}
