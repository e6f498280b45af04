// Package locale contains translations of user-facing messages.
package locale

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Supported contains supported languages, first one is default.
var Supported = []language.Tag{
	language.English,
	language.Korean,
}

var matcher = language.NewMatcher(Supported)

var messages = catalog.NewBuilder(catalog.Fallback(language.English))

// Messages are keyed by their english text.
var korean = map[string]string{
	// Console.
	"Loading posts...":                                      "게시글 불러오는 중...",
	"Failed to load posts.":                                 "게시글 불러오기에 실패했습니다.",
	"Error while communicating with server.":                "서버와 통신 중 오류가 발생했습니다.",
	"Posts:":                                                "게시글 목록:",
	"Commands: list, create, edit N, delete N, help, quit.": "명령어: list, create, edit N, delete N, help, quit.",
	"Unknown command.":                                      "알 수 없는 명령어입니다.",
	"Invalid post number.":                                  "잘못된 게시글 번호입니다.",
	"No posts yet.":                                         "등록된 게시글이 없습니다.",
	"Edit":                                                  "수정",
	"Delete":                                                "삭제",
	"Please fill in both title and content.":                "제목과 내용을 모두 입력해주세요.",
	"Creating post...":                                      "게시글을 작성하는 중...",
	"Failed to create post.":                                "게시글 작성에 실패했습니다.",
	"Enter a new title.":                                    "새 제목을 입력하세요.",
	"Enter new content.":                                    "새 내용을 입력하세요.",
	"Updating post...":                                      "게시글을 수정하는 중...",
	"Failed to update post.":                                "게시글 수정에 실패했습니다.",
	"Are you sure you want to delete this post?":            "정말 삭제하시겠습니까?",
	"Deleting post...":                                      "게시글을 삭제하는 중...",
	"Failed to delete post.":                                "게시글 삭제에 실패했습니다.",
	"Title":                                                 "제목",
	"Content":                                               "내용",
	// Server.
	"Invalid form.":            "잘못된 양식입니다.",
	"Form has invalid fields.": "양식에 잘못된 필드가 있습니다.",
	"Title is required.":       "제목을 입력해주세요.",
	"Content is required.":     "내용을 입력해주세요.",
	"Invalid post ID.":         "잘못된 게시글 ID입니다.",
	"Post not found.":          "게시글을 찾을 수 없습니다.",
}

func init() {
	for key, value := range korean {
		if err := messages.SetString(language.Korean, key, value); err != nil {
			panic(err)
		}
	}
}

// Match returns best supported language for specified tags.
func Match(tags ...language.Tag) language.Tag {
	_, index, _ := matcher.Match(tags...)
	return Supported[index]
}

// Parse returns best supported language for name like "ko" or "en-US".
//
// Invalid names result in default language.
func Parse(name string) language.Tag {
	tag, err := language.Parse(name)
	if err != nil {
		return Supported[0]
	}
	return Match(tag)
}

// ParseAcceptLanguage returns best supported language for value of
// Accept-Language header.
func ParseAcceptLanguage(value string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(value)
	if err != nil || len(tags) == 0 {
		return Supported[0]
	}
	return Match(tags...)
}

// NewPrinter returns printer of messages for specified language.
func NewPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(messages))
}
