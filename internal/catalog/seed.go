package catalog

// seedPosts is the catalog the blog ships with.
var seedPosts = []Post{
	{
		ID:          1,
		Title:       "Vite + React 프로젝트 가이드",
		Date:        "2024-10-02",
		Category:    "ai-summaries",
		Description: "Vite의 특징과 프로젝트 파일 구조 설명",
		Filename:    "vite-project-guide.md",
	},
	{
		ID:          2,
		Title:       "React Router 도입 가이드",
		Date:        "2024-10-02",
		Category:    "ai-summaries",
		Description: "React Router를 활용한 SPA 라우팅 구현",
		Filename:    "react-router-implementation-guide.md",
	},
	{
		ID:          3,
		Title:       "공통 레이아웃 컴포넌트 구현",
		Date:        "2024-10-02",
		Category:    "ai-summaries",
		Description: "Navigation, Footer, Layout 컴포넌트로 일관된 UI 구축",
		Filename:    "layout-components-guide.md",
	},
	{
		ID:          4,
		Title:       "마크다운 렌더링 & 포스트 상세 페이지",
		Date:        "2024-10-02",
		Category:    "ai-summaries",
		Description: "react-markdown으로 블로그 포스트를 아름답게 렌더링",
		Filename:    "markdown-rendering-guide.md",
	},
}

// Default returns the seeded catalog.
func Default() *Catalog {
	c, err := New(seedPosts)
	if err != nil {
		panic(err)
	}
	return c
}
