package news

// Categories is the interest catalog offered during onboarding.
var Categories = []string{
	"テクノロジー",
	"ビジネス",
	"スポーツ",
	"政治",
	"国際",
	"エンタメ",
	"健康",
	"ライフスタイル",
	"経済",
	"科学",
	"環境",
	"教育",
}
