// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// BlogCommentTable represents the 'blog.comment' table
type BlogCommentTable struct {
	Table      string
	ID         string
	ArticleID  string
	AuthorID   string
	Content    string
	IsApproved string
	CreatedAt  string
	UpdatedAt  string
}

var BlogComment = BlogCommentTable{
	Table:      "blog.comment",
	ID:         "id",
	ArticleID:  "articleid",
	AuthorID:   "authorid",
	Content:    "content",
	IsApproved: "isapproved",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
}
