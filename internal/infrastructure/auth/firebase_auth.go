package auth

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/option"
)

// コンテキストに保存するユーザーIDのキー
const userIDKey = "userID"

// FirebaseAuth はFirebase AuthenticationのIDトークン検証クライアント。
// 外部IDプロバイダはブラックボックスとして扱い、ここではトークン→ユーザーIDの
// 変換だけを担当する。
type FirebaseAuth struct {
	client *firebaseauth.Client
}

// NewFirebaseAuth は新しいFirebaseAuthを生成する
func NewFirebaseAuth(ctx context.Context, projectID string) (*FirebaseAuth, error) {
	conf := &firebase.Config{ProjectID: projectID}

	var opts []option.ClientOption
	if credentialsFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credentialsFile != "" {
		if _, err := os.Stat(credentialsFile); err == nil {
			opts = append(opts, option.WithCredentialsFile(credentialsFile))
		}
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("Firebaseアプリの初期化に失敗: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("Firebase Authクライアントの初期化に失敗: %w", err)
	}

	log.Printf("✅ Firebase Auth client initialized for project: %s", projectID)
	return &FirebaseAuth{client: client}, nil
}

// Middleware はAuthorizationヘッダのBearerトークンを検証し、
// ユーザーIDをコンテキストに格納するginミドルウェアを返す
func (a *FirebaseAuth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorizationヘッダが指定されていません",
			})
			return
		}

		token, err := a.client.VerifyIDToken(c.Request.Context(), strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "トークンの検証に失敗しました",
				"details": err.Error(),
			})
			return
		}

		c.Set(userIDKey, token.UID)
		c.Next()
	}
}

// UserID はミドルウェアが格納したユーザーIDを取り出す
func UserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return "", false
	}
	uid, ok := v.(string)
	return uid, ok && uid != ""
}
