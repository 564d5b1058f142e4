package post

import "time"

type (
	PostId    string
	CommentId string
)

// Like has no identity of its own: UserId is its uniqueness key
// within a single post.
type Like struct {
	UserId string `json:"user" bson:"user"`
}

type Comment struct {
	Id         CommentId `json:"id" bson:"id"`
	AuthorId   string    `json:"user" bson:"user"`
	AuthorName string    `json:"name" bson:"name"`
	Text       string    `json:"text" bson:"text"`
	Created    time.Time `json:"date" bson:"date"`
}

// Post embeds its likes and comments; they are not addressable
// outside the parent document. AuthorName is captured at creation
// and never re-synced with the user directory.
type Post struct {
	Id         PostId     `json:"id" bson:"id"`
	AuthorId   string     `json:"user" bson:"user"`
	AuthorName string     `json:"name" bson:"name"`
	Text       string     `json:"text" bson:"text"`
	Likes      []*Like    `json:"likes" bson:"likes"`
	Comments   []*Comment `json:"comments" bson:"comments"`
	Created    time.Time  `json:"date" bson:"date"`
}

// FindComment returns the embedded comment with the given id, or false.
func (p *Post) FindComment(id CommentId) (*Comment, bool) {
	for _, c := range p.Comments {
		if c.Id == id {
			return c, true
		}
	}
	return nil, false
}
