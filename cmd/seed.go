package main

import (
	"context"
	"log"
	"math/rand"
	"strconv"
	"time"

	"github.com/jaswdr/faker"

	"postboard/pkg/common"
	"postboard/pkg/post"
	"postboard/pkg/user"
)

var (
	f             = faker.New()
	onePassForAll = common.HashPass("sdfsdfsdf", common.RandStringRunes(8)) // salt must have len of 8
)

type IUserRepo interface {
	Add(*user.User) (string, error)
	GetAll() ([]*user.User, error)
}

func seed(userRepo IUserRepo, postRepo *post.Repo) {
	authors, err := userRepo.GetAll()
	if err != nil {
		log.Fatalln("seed: can't get all authors:", err)
	}

	if len(authors) == 0 {
		createAuthors(userRepo)
		if authors, err = userRepo.GetAll(); err != nil {
			log.Fatalln("seed: can't get all authors:", err)
		}
	}

	for i := 0; i <= 5; i++ {
		if _, err := postRepo.Add(context.Background(), genPost(authors)); err != nil {
			log.Fatalln("seed: can't add post:", err)
		}
	}
}

func createAuthors(userRepo IUserRepo) {
	// User for experiments (not random)
	_, err := userRepo.Add(&user.User{
		Username: "pike",
		Name:     "Rob Pike",
		Password: onePassForAll,
	})
	if err != nil {
		log.Fatalln("seed: can't create default user:", err)
	}
	for i := 1; i <= 5; i++ {
		genUser(userRepo, i)
	}
}

func genUser(userRepo IUserRepo, id int) {
	p := f.Person()
	u := user.User{
		// Fixed ids keep seeded users stable across server reloads
		Id:       strconv.Itoa(id),
		Username: p.FirstName(),
		Name:     p.Name(),
		Password: onePassForAll,
	}
	if _, err := userRepo.Add(&u); err != nil {
		log.Fatalln("seed: can't add user:", err)
	}
}

func genText() string {
	return f.Lorem().Paragraph(rand.Intn(3) + 2)
}

func genPost(users []*user.User) *post.Post {
	author := randUser(users)
	return &post.Post{
		AuthorId:   author.Id,
		AuthorName: author.Name,
		Text:       genText(),
		Likes:      genLikes(users),
		Comments:   genComments(users),
		Created:    f.Time().Time(time.Now()),
	}
}

// genLikes picks a random prefix of the user list so a post never
// holds two likes from the same user.
func genLikes(users []*user.User) []*post.Like {
	n := rand.Intn(len(users) + 1)
	likes := []*post.Like{}
	for _, u := range users[:n] {
		likes = append(likes, &post.Like{UserId: u.Id})
	}
	return likes
}

func genComments(users []*user.User) []*post.Comment {
	n := rand.Intn(10)
	comments := []*post.Comment{}
	for i := 0; i <= n; i++ {
		author := randUser(users)
		comments = append(comments, &post.Comment{
			Id:         post.CommentId(common.RandStringRunes(12)),
			AuthorId:   author.Id,
			AuthorName: author.Name,
			Text:       genText(),
			Created:    f.Time().Time(time.Now()),
		})
	}
	return comments
}

func randUser(users []*user.User) *user.User {
	return users[rand.Intn(len(users))]
}
