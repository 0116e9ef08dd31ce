// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// BlogArticleTable represents the 'blog.article' table
type BlogArticleTable struct {
	Table       string
	ID          string
	Title       string
	Slug        string
	Excerpt     string
	Content     string
	CoverURL    string
	Status      string
	AuthorID    string
	CategoryID  string
	PublishedAt string
	CreatedAt   string
	UpdatedAt   string
}

var BlogArticle = BlogArticleTable{
	Table:       "blog.article",
	ID:          "id",
	Title:       "title",
	Slug:        "slug",
	Excerpt:     "excerpt",
	Content:     "content",
	CoverURL:    "coverurl",
	Status:      "status",
	AuthorID:    "authorid",
	CategoryID:  "categoryid",
	PublishedAt: "publishedat",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// BlogArticleTagTable represents the 'blog.articletag' join table
type BlogArticleTagTable struct {
	Table     string
	ArticleID string
	TagID     string
}

var BlogArticleTag = BlogArticleTagTable{
	Table:     "blog.articletag",
	ArticleID: "articleid",
	TagID:     "tagid",
}

// BlogArticleLikeTable represents the 'blog.articlelike' table
type BlogArticleLikeTable struct {
	Table     string
	ArticleID string
	UserID    string
	CreatedAt string
}

var BlogArticleLike = BlogArticleLikeTable{
	Table:     "blog.articlelike",
	ArticleID: "articleid",
	UserID:    "userid",
	CreatedAt: "createdat",
}
