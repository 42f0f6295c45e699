package weather

// Prefectures lists the 47 regions in their conventional north-to-south order.
var Prefectures = []string{
	"北海道", "青森県", "岩手県", "宮城県", "秋田県", "山形県", "福島県",
	"茨城県", "栃木県", "群馬県", "埼玉県", "千葉県", "東京都", "神奈川県",
	"新潟県", "富山県", "石川県", "福井県", "山梨県", "長野県",
	"岐阜県", "静岡県", "愛知県", "三重県",
	"滋賀県", "京都府", "大阪府", "兵庫県", "奈良県", "和歌山県",
	"鳥取県", "島根県", "岡山県", "広島県", "山口県",
	"徳島県", "香川県", "愛媛県", "高知県",
	"福岡県", "佐賀県", "長崎県", "熊本県", "大分県", "宮崎県", "鹿児島県",
	"沖縄県",
}

// prefectureCities maps each prefecture to the city used as geocoding term.
var prefectureCities = map[string]string{
	"北海道": "Sapporo", "青森県": "Aomori", "岩手県": "Morioka", "宮城県": "Sendai",
	"秋田県": "Akita", "山形県": "Yamagata", "福島県": "Fukushima",
	"茨城県": "Mito", "栃木県": "Utsunomiya", "群馬県": "Maebashi",
	"埼玉県": "Saitama", "千葉県": "Chiba", "東京都": "Tokyo", "神奈川県": "Yokohama",
	"新潟県": "Niigata", "富山県": "Toyama", "石川県": "Kanazawa", "福井県": "Fukui",
	"山梨県": "Kofu", "長野県": "Nagano", "岐阜県": "Gifu",
	"静岡県": "Shizuoka", "愛知県": "Nagoya", "三重県": "Tsu",
	"滋賀県": "Otsu", "京都府": "Kyoto", "大阪府": "Osaka", "兵庫県": "Kobe",
	"奈良県": "Nara", "和歌山県": "Wakayama",
	"鳥取県": "Tottori", "島根県": "Matsue", "岡山県": "Okayama", "広島県": "Hiroshima",
	"山口県": "Yamaguchi", "徳島県": "Tokushima", "香川県": "Takamatsu",
	"愛媛県": "Matsuyama", "高知県": "Kochi",
	"福岡県": "Fukuoka", "佐賀県": "Saga", "長崎県": "Nagasaki", "熊本県": "Kumamoto",
	"大分県": "Oita", "宮崎県": "Miyazaki", "鹿児島県": "Kagoshima", "沖縄県": "Naha",
}

// LookupTerm returns the geocoding term for a region, or the region itself when unmapped.
func LookupTerm(region string) string {
	if city, ok := prefectureCities[region]; ok {
		return city
	}
	return region
}
