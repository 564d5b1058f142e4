package main

import (
	"context"
	"database/sql"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"postboard/pkg/logger"
	"postboard/pkg/middleware"
	"postboard/pkg/post"
	"postboard/pkg/sessions"
	"postboard/pkg/user"
	"postboard/pkg/user/api"
)

type EnvConfig map[string]string

func init() {
	rand.Seed(time.Now().UnixNano())
}

func main() {
	var cfg EnvConfig = readDotenv()

	db, err := sql.Open("pgx", "postgresql://localhost/"+cfg["POSTGRES_DB"]+"?sslmode=disable")
	if err != nil {
		log.Printf("Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("unable to reach PostgreSQL: %v", err)
	}

	redisConn, err := redis.DialURL(cfg["REDIS_ADDR"])
	if err != nil {
		log.Fatalln("main: can't connect to Redis")
	}

	mongoCtx, mongoCtxCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer mongoCtxCancel()
	mongoClient, err := mongo.Connect(mongoCtx, options.Client().ApplyURI(cfg["MONGODB_URI"]))
	if err != nil {
		log.Fatalln("main: can't connect to MongoDB,", err)
	}
	if err := mongoClient.Ping(mongoCtx, nil); err != nil {
		log.Fatalln("main: unable to connect to MongoDB,", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(mongoCtx); err != nil {
			log.Fatalln("main: failed disconnecting from MongoDB,", err)
		}
	}()

	postsCol := mongoClient.Database("postboard").Collection("posts")
	postsRepo := post.NewPostRepo(postsCol)
	usersRepo := user.NewUserRepo(db)
	sessionManager := sessions.NewSessionManager(cfg["SECRET_KEY"], redisConn)
	postService := post.NewService(postsRepo, usersRepo)
	postHandler := post.NewPostHandler(postService)
	userHandler := api.NewUserHandler(usersRepo, sessionManager)

	r := mux.NewRouter()

	// Generate fake content for local development
	// seed(usersRepo, postsRepo)

	apiRouter := r.PathPrefix("/api").Subrouter()

	// Posts
	apiRouter.HandleFunc("/posts", postHandler.Add).Methods("POST")
	apiRouter.HandleFunc("/posts", postHandler.List).Methods("GET")
	apiRouter.HandleFunc("/posts/{post_id}", postHandler.Get).Methods("GET")
	apiRouter.HandleFunc("/posts/{post_id}", postHandler.Delete).Methods("DELETE")

	// Likes
	apiRouter.HandleFunc("/posts/like/{post_id}", postHandler.Like).Methods("PUT")
	apiRouter.HandleFunc("/posts/unlike/{post_id}", postHandler.Unlike).Methods("PUT")

	// Comments
	apiRouter.HandleFunc("/posts/comment/{post_id}", postHandler.AddComment).Methods("POST")
	apiRouter.HandleFunc("/posts/comment/{post_id}/{comment_id}", postHandler.DeleteComment).Methods("DELETE")

	// Users
	apiRouter.HandleFunc("/register", userHandler.Register).Methods("POST")
	apiRouter.HandleFunc("/login", userHandler.LogIn).Methods("POST")

	auth := middleware.NewAuthMiddleware(sessionManager, usersRepo)
	r.Use(auth.Middleware)

	logMiddleware := middleware.NewLoggingMiddleware(logger.Run(cfg["LOG_LEVEL"]))
	r.Use(logMiddleware.SetupTracing)
	r.Use(logMiddleware.SetupLogging)
	r.Use(logMiddleware.AccessLog)

	log.Println("Serving at http://localhost:8080/")
	log.Fatalln(http.ListenAndServe(":8080", r))
}

func readDotenv() EnvConfig {
	env, err := godotenv.Read()
	if err != nil {
		log.Fatal("failed reading .env file:", err)
	}
	return env
}
