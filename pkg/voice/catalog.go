package voice

// DefaultCatalog returns the application feature catalog in display order.
func DefaultCatalog() []Feature {
	return []Feature{
		{
			Path:        "/dashboard",
			DisplayName: Localized{LanguageEnglish: "Dashboard", LanguageBengali: "ড্যাশবোর্ড"},
			Description: Localized{LanguageEnglish: "Overview of your safety status and communities", LanguageBengali: "আপনার নিরাপত্তা ও কমিউনিটির সারসংক্ষেপ"},
			DefaultKeywords: map[Language][]string{
				LanguageEnglish: {"dashboard", "home", "main menu", "go to dashboard"},
				LanguageBengali: {"ড্যাশবোর্ড", "হোম", "মেনু", "ড্যাশবোর্ডে যাও"},
			},
			Response: Localized{LanguageEnglish: "Going to Dashboard", LanguageBengali: "ড্যাশবোর্ডে যাচ্ছি"},
		},
		{
			Path:        "/",
			DisplayName: Localized{LanguageEnglish: "Home", LanguageBengali: "হোম"},
			Description: Localized{LanguageEnglish: "Landing page", LanguageBengali: "শুরুর পাতা"},
			DefaultKeywords: map[Language][]string{
				LanguageEnglish: {"index", "landing page", "start page"},
				LanguageBengali: {"ইনডেক্স", "শুরুর পাতা"},
			},
			Response: Localized{LanguageEnglish: "Going to Home", LanguageBengali: "হোমে যাচ্ছি"},
		},
		{
			Path:        "/sos",
			DisplayName: Localized{LanguageEnglish: "SOS Emergency", LanguageBengali: "এসওএস জরুরি"},
			Description: Localized{LanguageEnglish: "Send an emergency alert to your contacts", LanguageBengali: "আপনার কন্টাক্টদের জরুরি সংকেত পাঠান"},
			DefaultKeywords: map[Language][]string{
				LanguageEnglish: {"sos", "help", "emergency", "open sos", "panic button"},
				LanguageBengali: {"এসওএস", "সাহায্য", "জরুরি", "এসওএস খোল", "প্যানিক বাটন"},
			},
			Response: Localized{LanguageEnglish: "Opening SOS Emergency", LanguageBengali: "জরুরি সেবা খুলছি"},
		},
		{
			Path:        "/emergency-contacts",
			DisplayName: Localized{LanguageEnglish: "Emergency Contacts", LanguageBengali: "জরুরি নাম্বার"},
			Description: Localized{LanguageEnglish: "Manage the people notified in an emergency", LanguageBengali: "জরুরি অবস্থায় যাদের জানানো হবে তাদের পরিচালনা করুন"},
			DefaultKeywords: map[Language][]string{
				LanguageEnglish: {"contacts", "emergency contacts", "my contacts", "phone numbers"},
				LanguageBengali: {"কন্টাক্ট", "জরুরি নাম্বার", "ফোন নম্বর"},
			},
			Response: Localized{LanguageEnglish: "Opening Emergency Contacts", LanguageBengali: "জরুরি নাম্বার খুলছি"},
		},
		{
			Path:        "/emergency-alerts",
			DisplayName: Localized{LanguageEnglish: "Emergency Alerts", LanguageBengali: "জরুরি সতর্কতা"},
			Description: Localized{LanguageEnglish: "Alerts reported near you", LanguageBengali: "আপনার কাছাকাছি সতর্কবার্তা"},
			DefaultKeywords: map[Language][]string{
				LanguageEnglish: {"alerts", "emergency alerts", "warnings", "show alerts"},
				LanguageBengali: {"সতর্কতা", "এলার্ট", "সতর্কবার্তা"},
			},
			Response: Localized{LanguageEnglish: "Opening Emergency Alerts", LanguageBengali: "জরুরি সতর্কতা খুলছি"},
		},
		{
			Path:        "/fake-call",
			DisplayName: Localized{LanguageEnglish: "Fake Call", LanguageBengali: "ফেক কল"},
			Description: Localized{LanguageEnglish: "Simulate an incoming call", LanguageBengali: "একটি ইনকামিং কল সিমুলেট করুন"},
			DefaultKeywords: map[Language][]string{
				LanguageEnglish: {"fake call", "pretend call", "simulate call"},
				LanguageBengali: {"ফেক কল", "ভুয়া কল"},
			},
			Response: Localized{LanguageEnglish: "Opening Fake Call", LanguageBengali: "ফেক কল খুলছি"},
		},
		{
			Path:        "/check-in",
			DisplayName: Localized{LanguageEnglish: "Check-in Timer", LanguageBengali: "চেক-ইন টাইমার"},
			Description: Localized{LanguageEnglish: "Alert your contacts if you do not check in on time", LanguageBengali: "সময়মতো চেক ইন না করলে কন্টাক্টদের জানানো হবে"},
			DefaultKeywords: map[Language][]string{
				LanguageEnglish: {"check in", "timer", "safety timer", "check-in"},
				LanguageBengali: {"চেক ইন", "টাইমার", "সেফটি টাইমার"},
			},
			Response: Localized{LanguageEnglish: "Opening Check-in Timer", LanguageBengali: "চেক-ইন টাইমার খুলছি"},
		},
		{
			Path:        "/safe-arrival",
			DisplayName: Localized{LanguageEnglish: "Safe Arrival", LanguageBengali: "নিরাপদ পৌঁছানো"},
			Description: Localized{LanguageEnglish: "Share your journey until you arrive", LanguageBengali: "পৌঁছানো পর্যন্ত আপনার যাত্রা শেয়ার করুন"},
			DefaultKeywords: map[Language][]string{
				LanguageEnglish: {"safe arrival", "track me", "journey tracking"},
				LanguageBengali: {"নিরাপদ পৌঁছানো", "ট্র্যাক করো", "জার্নি ট্র্যাকিং"},
			},
			Response: Localized{LanguageEnglish: "Opening Safe Arrival", LanguageBengali: "সেফ অ্যারাইভাল খুলছি"},
		},
		{
			Path:        "/communities",
			DisplayName: Localized{LanguageEnglish: "Communities", LanguageBengali: "কমিউনিটি"},
			Description: Localized{LanguageEnglish: "Browse community groups", LanguageBengali: "কমিউনিটি গ্রুপ দেখুন"},
			DefaultKeywords: map[Language][]string{
				LanguageEnglish: {"communities", "groups", "community list", "find groups"},
				LanguageBengali: {"কমিউনিটি", "গ্রুপ", "কমিউনিটি তালিকা"},
			},
			Response: Localized{LanguageEnglish: "Opening Communities", LanguageBengali: "কমিউনিটি খুলছি"},
		},
		{
			Path:        "/create-community",
			DisplayName: Localized{LanguageEnglish: "Create Community", LanguageBengali: "কমিউনিটি তৈরি"},
			Description: Localized{LanguageEnglish: "Start a new community group", LanguageBengali: "নতুন কমিউনিটি গ্রুপ শুরু করুন"},
			DefaultKeywords: map[Language][]string{
				LanguageEnglish: {"create community", "new group", "start community"},
				LanguageBengali: {"কমিউনিটি তৈরি", "নতুন গ্রুপ", "কমিউনিটি বানাও"},
			},
			Response: Localized{LanguageEnglish: "Opening Create Community", LanguageBengali: "কমিউনিটি তৈরির পেজ খুলছি"},
		},
		{
			Path:        "/join-community",
			DisplayName: Localized{LanguageEnglish: "Join Community", LanguageBengali: "কমিউনিটিতে যোগ দিন"},
			Description: Localized{LanguageEnglish: "Join an existing community with a code", LanguageBengali: "কোড দিয়ে কমিউনিটিতে যোগ দিন"},
			DefaultKeywords: map[Language][]string{
				LanguageEnglish: {"join community", "join group"},
				LanguageBengali: {"কমিউনিটিতে যোগ দিন", "গ্রুপে যোগ দিন"},
			},
			Response: Localized{LanguageEnglish: "Opening Join Community", LanguageBengali: "কমিউনিটিতে যোগদানের পেজ খুলছি"},
		},
		{
			Path:        "/map",
			DisplayName: Localized{LanguageEnglish: "Map", LanguageBengali: "ম্যাপ"},
			Description: Localized{LanguageEnglish: "See your location and nearby places", LanguageBengali: "আপনার অবস্থান ও কাছাকাছি জায়গা দেখুন"},
			DefaultKeywords: map[Language][]string{
				LanguageEnglish: {"map", "location", "where am i", "nearby"},
				LanguageBengali: {"ম্যাপ", "মানচিত্র", "অবস্থান", "কাছাকাছি"},
			},
			Response: Localized{LanguageEnglish: "Opening Map", LanguageBengali: "ম্যাপ খুলছি"},
		},
		{
			Path:        "/chat",
			DisplayName: Localized{LanguageEnglish: "Chat", LanguageBengali: "চ্যাট"},
			Description: Localized{LanguageEnglish: "Messages with your communities", LanguageBengali: "কমিউনিটির সাথে বার্তা"},
			DefaultKeywords: map[Language][]string{
				LanguageEnglish: {"chat", "messages", "inbox", "conversation"},
				LanguageBengali: {"চ্যাট", "মেসেজ", "বার্তা", "কথপোকথন"},
			},
			Response: Localized{LanguageEnglish: "Opening Chat", LanguageBengali: "চ্যাট খুলছি"},
		},
		{
			Path:        "/notices",
			DisplayName: Localized{LanguageEnglish: "Notices", LanguageBengali: "নোটিশ"},
			Description: Localized{LanguageEnglish: "Community announcements", LanguageBengali: "কমিউনিটির ঘোষণা"},
			DefaultKeywords: map[Language][]string{
				LanguageEnglish: {"notices", "announcements", "news", "bulletin"},
				LanguageBengali: {"নোটিশ", "ঘোষণা", "খবর"},
			},
			Response: Localized{LanguageEnglish: "Opening Notices", LanguageBengali: "নোটিশ খুলছি"},
		},
		{
			Path:        "/create-notice",
			DisplayName: Localized{LanguageEnglish: "Create Notice", LanguageBengali: "নোটিশ তৈরি"},
			Description: Localized{LanguageEnglish: "Post a new announcement", LanguageBengali: "নতুন ঘোষণা দিন"},
			DefaultKeywords: map[Language][]string{
				LanguageEnglish: {"create notice", "post announcement", "new notice"},
				LanguageBengali: {"নোটিশ তৈরি", "ঘোষণা দিন", "নতুন নোটিশ"},
			},
			Response: Localized{LanguageEnglish: "Opening Create Notice", LanguageBengali: "নোটিশ তৈরির পেজ খুলছি"},
		},
		{
			Path:        "/profile",
			DisplayName: Localized{LanguageEnglish: "Profile", LanguageBengali: "প্রোফাইল"},
			Description: Localized{LanguageEnglish: "Your account information", LanguageBengali: "আপনার একাউন্টের তথ্য"},
			DefaultKeywords: map[Language][]string{
				LanguageEnglish: {"profile", "account", "my info"},
				LanguageBengali: {"প্রোফাইল", "একাউন্ট", "আমার তথ্য"},
			},
			Response: Localized{LanguageEnglish: "Opening Profile", LanguageBengali: "প্রোফাইল খুলছি"},
		},
		{
			Path:        "/edit-profile",
			DisplayName: Localized{LanguageEnglish: "Edit Profile", LanguageBengali: "প্রোফাইল এডিট"},
			Description: Localized{LanguageEnglish: "Change your account details", LanguageBengali: "আপনার তথ্য পরিবর্তন করুন"},
			DefaultKeywords: map[Language][]string{
				LanguageEnglish: {"edit profile", "change details", "update profile"},
				LanguageBengali: {"প্রোফাইল এডিট", "তথ্য পরিবর্তন"},
			},
			Response: Localized{LanguageEnglish: "Opening Edit Profile", LanguageBengali: "প্রোফাইল এডিট খুলছি"},
		},
		{
			Path:        "/notifications",
			DisplayName: Localized{LanguageEnglish: "Notifications", LanguageBengali: "নোটিফিকেশন"},
			Description: Localized{LanguageEnglish: "Recent activity and updates", LanguageBengali: "সাম্প্রতিক কার্যকলাপ ও আপডেট"},
			DefaultKeywords: map[Language][]string{
				LanguageEnglish: {"notifications", "updates", "activity"},
				LanguageBengali: {"নোটিফিকেশন", "আপডেট", "অ্যাক্টিভিটি"},
			},
			Response: Localized{LanguageEnglish: "Opening Notifications", LanguageBengali: "নোটিফিকেশন খুলছি"},
		},
		{
			Path:        "/login",
			DisplayName: Localized{LanguageEnglish: "Login", LanguageBengali: "লগইন"},
			Description: Localized{LanguageEnglish: "Sign in to your account", LanguageBengali: "আপনার একাউন্টে সাইন ইন করুন"},
			DefaultKeywords: map[Language][]string{
				LanguageEnglish: {"login", "sign in", "log in"},
				LanguageBengali: {"লগইন", "সাইন ইন"},
			},
			Response: Localized{LanguageEnglish: "Opening Login", LanguageBengali: "লগইন পেজ খুলছি"},
		},
		{
			Path:        "/register",
			DisplayName: Localized{LanguageEnglish: "Registration", LanguageBengali: "রেজিস্ট্রেশন"},
			Description: Localized{LanguageEnglish: "Create a new account", LanguageBengali: "নতুন একাউন্ট খুলুন"},
			DefaultKeywords: map[Language][]string{
				LanguageEnglish: {"register", "sign up", "create account"},
				LanguageBengali: {"রেজিস্টার", "সাইন আপ", "অ্যাকাউন্ট খুলুন"},
			},
			Response: Localized{LanguageEnglish: "Opening Registration", LanguageBengali: "রেজিস্ট্রেশন পেজ খুলছি"},
		},
		{
			Path:        "/surveys",
			DisplayName: Localized{LanguageEnglish: "Surveys", LanguageBengali: "জরিপ"},
			Description: Localized{LanguageEnglish: "Answer community polls", LanguageBengali: "কমিউনিটির পোলে উত্তর দিন"},
			DefaultKeywords: map[Language][]string{
				LanguageEnglish: {"surveys", "polls", "questions"},
				LanguageBengali: {"জরিপ", "পোল", "প্রশ্ন"},
			},
			Response: Localized{LanguageEnglish: "Opening Surveys", LanguageBengali: "জরিপ খুলছি"},
		},
		{
			Path:        "/create-survey",
			DisplayName: Localized{LanguageEnglish: "Create Survey", LanguageBengali: "জরিপ তৈরি"},
			Description: Localized{LanguageEnglish: "Ask your community a question", LanguageBengali: "কমিউনিটিকে প্রশ্ন করুন"},
			DefaultKeywords: map[Language][]string{
				LanguageEnglish: {"create survey", "new poll"},
				LanguageBengali: {"জরিপ তৈরি", "নতুন পোল"},
			},
			Response: Localized{LanguageEnglish: "Opening Create Survey", LanguageBengali: "জরিপ তৈরির পেজ খুলছি"},
		},
		{
			Path:        "/search",
			DisplayName: Localized{LanguageEnglish: "Search", LanguageBengali: "অনুসন্ধান"},
			Description: Localized{LanguageEnglish: "Find communities, notices and people", LanguageBengali: "কমিউনিটি, নোটিশ ও মানুষ খুঁজুন"},
			DefaultKeywords: map[Language][]string{
				LanguageEnglish: {"search", "find"},
				LanguageBengali: {"অনুসন্ধান", "খোঁজ"},
			},
			Response: Localized{LanguageEnglish: "Opening Search", LanguageBengali: "অনুসন্ধান খুলছি"},
		},
	}
}
