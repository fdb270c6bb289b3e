package taxonomy

// TargetGrades is the grade vocabulary, in display order
var TargetGrades = []string{
	"Preschool",
	"Kindergarten",
	"Grade 1",
	"Grade 2",
	"Grade 3",
	"Grade 4",
	"Grade 5",
	"Grade 6",
	"Grade 7",
	"Grade 8",
	"Grade 9",
	"Grade 10",
	"Grade 11",
	"Grade 12",
}

// ResourceTypes is the resource type vocabulary
var ResourceTypes = []string{
	"Workbook",
	"Speech",
	"Podcast",
	"Activity Book",
	"Art",
	"Articles",
	"Audio",
	"Craft",
	"Decoration",
	"EBook",
	"Experiments",
	"Flash cards",
	"Game",
	"Image",
	"Journal",
	"Kahoot",
	"Latmiyya/Nasheed",
	"Lesson",
	"PDF",
	"Play",
	"Poem",
	"Story",
	"Video",
	"Worksheet",
}

var quranTopics = []string{
	"Qurʾān Reading",
	"Āyahs (Verses)",
	"Memorization",
	"Stories",
	"Tafṣīr",
	"Tajwīd",
	"Translation",
	"Verses of Light",
}

var duasZiyaratTopics = []string{
	"Aṣ-Ṣaḥīfah as-Sajjādiyyah",
	"Daily Ramaḍān Duʿās",
	"Duʿāʾ al-ʿAhd",
	"Duʿāʾ al-Iftitāḥ",
	"Duʿāʾ Kumayl",
	"Duʿāʾ an-Nudbah",
	"Duʿāʾ at-Tawassul",
	"Ḥadīth al-Kisāʾ",
	"Ziyārat Āl Yāsīn",
	"Ziyārat al-Arbaʿīn",
	"Ziyārat ʿĀshūrāʾ",
	"Ziyārat Wārith",
}

var aqaidTopics = []string{
	"Allah's Attributes",
	"Tawḥīd (Divine Unity)",
	"ʿAdālah (Divine Justice)",
	"Nubuwwah (Prophethood)",
	"Imāmah (Divine Leadership)",
	"Qiyāmah (Day of Judgment)",
	"Wilāyah",
}

var fiqhTopics = []string{
	"Ṣalāh (Prayer)",
	"Ṣawm (Fasting)",
	"Ḥajj (Pilgrimage)",
	"Zakāt",
	"Khums",
	"Jihād",
	"Amr bil Maʿrūf",
	"Nahī ʿanil Munkar",
	"Tawallī",
	"Tabarrī",
}

var akhlaqTopics = []string{
	"Animal Rights",
	"Arrogance",
	"Backbiting",
	"Being Active",
	"Bullying",
	"Children",
	"Cleanliness",
	"Courage",
	"Diversity",
	"Environment",
	"Food",
	"Forgiveness",
	"Friendship",
	"Generosity",
	"Grandparents",
	"Gratitude",
	"Greed",
	"Humility",
	"Integrity",
	"Islamic Phrases",
	"Jealousy",
	"Kindness",
	"Lying",
	"Manners",
	"Marriage",
	"Mental Health",
	"Neighbors",
	"Parents",
	"Patience",
	"Perseverance",
	"Respect",
	"Self Control",
	"Sharing",
	"Siblings",
	"Stealing",
	"Taqwā (God-consciousness)",
	"Teachers",
	"Trust",
	"Unity",
}

var tarikhTopics = []string{
	"Arbaʿīn",
	"Biʿthah",
	"Ayām Fāṭimiyyah",
	"Eidul Aḍḥā",
	"Eidul Fiṭr",
	"The Event of Ghadīr",
	"Milādun-Nabī (Week of Unity)",
	"Miʿrāj",
	"Spiritual Season",
	"The Event of al-Kisāʾ",
	"The Event of Karbalāʾ",
	"The Event of Mubāhalah",
	"The Ten Days of al-Karāmah",
}

var personalityTopics = []string{
	"Prophet Muḥammad (ṣ)",
	"Imām ʿAlī (ʿa)",
	"Sayyidah Fāṭimah (ʿa)",
	"Imām Ḥasan (ʿa)",
	"Imām Ḥusayn (ʿa)",
	"Imām as-Sajjād (ʿa)",
	"Imām al-Bāqir (ʿa)",
	"Imām aṣ-Ṣādiq (ʿa)",
	"Imām al-Kāẓim (ʿa)",
	"Imām ar-Riḍā (ʿa)",
	"Imām al-Jawād (ʿa)",
	"Imām an-Naqī (ʿa)",
	"Imām al-ʿAskarī (ʿa)",
	"Imām al-Mahdī (ʾaj)",
	"Prophets",
	"Companions",
}

var islamicMonthTopics = []string{
	"Muḥarram",
	"Ṣafar",
	"Rabīʿ al-Awwal",
	"Rabīʿ al-Ākhir",
	"Jumādā al-Ūlā",
	"Jumādā al-Ākhirah",
	"Rajab",
	"Shaʿbān",
	"Shahr Ramaḍān",
	"Shawwāl",
	"Dhul Qaʿdah",
	"Dhul Ḥijjah",
}

var languageTopics = []string{
	"Arabic",
	"Danish",
	"Farsi",
	"French",
	"Spanish",
	"Swahili",
	"Swedish",
	"Urdu",
}

var curriculumTopics = []string{
	"Islamic Studies Curriculum",
	"Qurʾān Curriculum",
	"Science Curriculum",
}

var otherTopics = []string{
	"Bulūgh/Taklīf",
	"New Muslims",
	"Family",
	"Homeschooling",
	"Marriage",
	"Parenting",
	"Special Education",
	"Young Adults",
}

// CreditOrganizations lists the organizations a resource can be credited to
var CreditOrganizations = []string{
	"Islam for my Kids",
	"Reflect 14",
	"Hadi Club",
	"Al Noor Channel",
	"ZT Media",
	"Servants of Lady Fatimah",
	"Unknown",
	"Sakina Hasan Askari",
	"NoorInk Radio",
	"Aunty Zahra Media",
	"Sun Behind the Cloud",
	"AhlulBayt Art by Alisa",
	"TopsInspire",
	"ICZ",
	"Tarbiyah Made Easy",
	"Noor Islamic Education",
	"5 and 14 Islamic Books",
	"Fatimasughra_",
	"Camp Noor",
	"CABTV",
	"Islamic Lessons Made Easy",
	"ALQAEM KIDS",
	"SABA Islamic Center",
	"L'équipe Shia 974",
	"Le Phare des 14 Lumiéres",
	"Hussainiyat Al Imam Al Hassan",
	"The WonderTime Show",
	"Al-Kisa Foundation",
	"Kisa Family",
	"Ṣirāṭ Prison Project",
	"Tanveer Shares",
	"QFatima",
	"Al Hujjah Kids",
	"Who is Hussain?",
	"Shazia Yusufali",
	"Masjid Sayed Hashim Bahbahani",
	"Other",
}

// Occupations lists the occupations a contributor can pick on their profile
var Occupations = []string{
	"Parent",
	"Weekend School Teacher",
	"Full Time School Teacher",
	"Scholar",
	"School Administrator",
	"Other",
}
