package model

import "strings"

// Category classifies a credential or account by the kind of service it
// belongs to. Categories drive investigator-facing filtering and the
// important-account heuristics; they are labels, not an enum the store
// enforces.
type Category string

// Known category values, in rule-precedence order.
const (
	// CategoryEmail marks credentials whose identifying field is an
	// email address, or whose application is a mail service.
	CategoryEmail Category = "Email"
	// CategorySocialMedia marks social network services.
	CategorySocialMedia Category = "Social Media"
	// CategoryMessaging marks instant-messaging services.
	CategoryMessaging Category = "Messaging"
	// CategoryBanking marks banking and payment services.
	CategoryBanking Category = "Banking"
	// CategoryShopping marks e-commerce services.
	CategoryShopping Category = "Shopping"
	// CategoryStreaming marks media streaming services.
	CategoryStreaming Category = "Streaming"
	// CategoryGoogleServices marks Google platform services that are not
	// themselves mail accounts.
	CategoryGoogleServices Category = "Google Services"
	// CategoryOther is the fallback when no rule matches.
	CategoryOther Category = "Other"
)

// String returns the display label of the category.
func (c Category) String() string {
	return string(c)
}

// consumerEmailDomains are well-known consumer mail providers. A credential
// whose @-bearing field lands on one of these is always an email account.
var consumerEmailDomains = []string{
	"gmail.com", "yahoo.com", "hotmail.com", "outlook.com", "icloud.com",
	"protonmail.com", "aol.com", "mail.com", "zoho.com", "yandex.com",
	"live.com", "msn.com", "gmx.com",
}

// Application keyword sets matched against the application/source text,
// in precedence order. First match wins.
var (
	socialKeywords = []string{
		"facebook", "instagram", "twitter", "tiktok", "snapchat", "linkedin",
		"reddit", "pinterest", "telegram", "discord", "badoo", "tinder", "onlyfans",
	}
	messagingKeywords = []string{"whatsapp", "messenger", "signal", "viber", "skype", "duo"}
	mailAppKeywords   = []string{"gmail", "yahoo", "outlook", "mail", "email"}
	bankingKeywords   = []string{"bank", "paypal", "stripe", "revolut", "wise", "crypto", "wallet"}
	shoppingKeywords  = []string{"amazon", "ebay", "shop", "store", "cart"}
	streamingKeywords = []string{"netflix", "spotify", "youtube", "hulu", "disney", "prime"}
	googleKeywords    = []string{"google", "android", "chrome"}
)

// Categorize classifies a credential or account into a Category from its
// free-text signals.
//
// Rule precedence (first match wins):
//  1. If the password, username, or email contains "@" (checked in that
//     order: the value fields themselves can reveal that a "username" is
//     actually an email address, which is the strongest signal), classify
//     as Email when the text after "@" is a known consumer mail domain or
//     generically looks like local@domain.tld.
//  2. Match the application (falling back to source) text against ordered
//     keyword sets: Social Media, Messaging, Email-by-app-name, Banking,
//     Shopping, Streaming, Google Services.
//  3. Default to Other.
func Categorize(application, source, username, email, password string) Category {
	usernameCheck := strings.ToLower(username)
	emailCheck := strings.ToLower(email)
	passwordCheck := strings.ToLower(password)

	var checkText string
	switch {
	case strings.Contains(passwordCheck, "@"):
		checkText = passwordCheck
	case strings.Contains(usernameCheck, "@"):
		checkText = usernameCheck
	case strings.Contains(emailCheck, "@"):
		checkText = emailCheck
	}

	if checkText != "" {
		for _, domain := range consumerEmailDomains {
			if strings.Contains(checkText, domain) {
				return CategoryEmail
			}
		}
		if looksLikeEmail(checkText) {
			return CategoryEmail
		}
	}

	appLower := strings.ToLower(application)
	if appLower == "" {
		appLower = strings.ToLower(source)
	}

	keywordSets := []struct {
		keywords []string
		category Category
	}{
		{socialKeywords, CategorySocialMedia},
		{messagingKeywords, CategoryMessaging},
		{mailAppKeywords, CategoryEmail},
		{bankingKeywords, CategoryBanking},
		{shoppingKeywords, CategoryShopping},
		{streamingKeywords, CategoryStreaming},
		{googleKeywords, CategoryGoogleServices},
	}
	for _, set := range keywordSets {
		for _, keyword := range set.keywords {
			if strings.Contains(appLower, keyword) {
				return set.category
			}
		}
	}

	return CategoryOther
}

// looksLikeEmail reports whether text is shaped like local@domain.tld:
// exactly one "@" with a dot somewhere in the domain part.
func looksLikeEmail(text string) bool {
	parts := strings.Split(text, "@")
	if len(parts) != 2 {
		return false
	}
	return strings.Contains(parts[1], ".")
}

// ExtractEmailDomain returns the lowercased domain of an email-shaped
// string, or "" when the input carries no "@" or an empty domain.
func ExtractEmailDomain(text string) string {
	idx := strings.Index(text, "@")
	if idx < 0 {
		return ""
	}
	domain := strings.ToLower(strings.TrimSpace(text[idx+1:]))
	return domain
}
