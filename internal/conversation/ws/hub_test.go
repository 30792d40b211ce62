package ws

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	catalogdomain "github.com/brandloom/brandloom/internal/catalog/domain"
	"github.com/brandloom/brandloom/internal/conversation/domain"
	conversationrepository "github.com/brandloom/brandloom/internal/conversation/repository"
	conversationservice "github.com/brandloom/brandloom/internal/conversation/service"
	invoicedomain "github.com/brandloom/brandloom/internal/invoice/domain"
	milestonedomain "github.com/brandloom/brandloom/internal/milestone/domain"
	requestdomain "github.com/brandloom/brandloom/internal/servicerequest/domain"
	requestrepository "github.com/brandloom/brandloom/internal/servicerequest/repository"
	userdomain "github.com/brandloom/brandloom/internal/user/domain"
	userrepository "github.com/brandloom/brandloom/internal/user/repository"
)

type hubFixture struct {
	db      *gorm.DB
	hub     *Hub
	user    userdomain.User
	request requestdomain.ServiceRequest
}

func setupHubFixture(t *testing.T) *hubFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, conn.AutoMigrate(
		&userdomain.User{},
		&catalogdomain.Service{},
		&catalogdomain.Plan{},
		&requestdomain.ServiceRequest{},
		&milestonedomain.Milestone{},
		&invoicedomain.Invoice{},
		&domain.Conversation{},
		&domain.Message{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	user := userdomain.User{
		ID:       node.Generate(),
		Name:     "Ada Client",
		Email:    "ada@example.com",
		Role:     userdomain.RoleUser,
		Password: "hash",
	}
	require.NoError(t, conn.Create(&user).Error)

	offering := catalogdomain.Service{
		ID:      node.Generate(),
		AdminID: node.Generate(),
		Title:   "Social Media Management",
	}
	require.NoError(t, conn.Create(&offering).Error)

	request := requestdomain.ServiceRequest{
		ID:        node.Generate(),
		UserID:    user.ID,
		ServiceID: offering.ID,
		PlanID:    node.Generate(),
		PlanName:  "Growth",
		PlanPrice: 1000,
		StartDate: time.Now().UTC(),
		EndDate:   time.Now().UTC().AddDate(0, 1, 0),
		Status:    requestdomain.StatusActive,
	}
	require.NoError(t, conn.Create(&request).Error)

	svc := conversationservice.New(conversationservice.Params{
		DB:       conn,
		Log:      zap.NewNop(),
		GenID:    node,
		Repo:     conversationrepository.Provide(),
		Requests: requestrepository.Provide(),
		Users:    userrepository.Provide(),
	})

	hub := NewHub(HubParams{Log: zap.NewNop(), Service: svc})
	return &hubFixture{db: conn, hub: hub, user: user, request: request}
}

func (f *hubFixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()

	principal := domain.Principal{ID: f.user.ID.String(), Role: userdomain.RoleUser}
	roomID := f.request.ID.String()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, f.hub.Serve(w, r, principal, roomID))
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHubPersistsAndBroadcastsInboundFrames(t *testing.T) {
	f := setupHubFixture(t)
	conn := f.dial(t)

	require.NoError(t, conn.WriteJSON(inboundFrame{Text: "hello there"}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var frame struct {
		Text  string `json:"text"`
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(payload, &frame))
	assert.Empty(t, frame.Error)
	assert.Equal(t, "hello there", frame.Text)

	var count int64
	require.NoError(t, f.db.Model(&domain.Message{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var message domain.Message
	require.NoError(t, f.db.First(&message).Error)
	assert.Equal(t, f.user.ID, message.SenderID)
	assert.Equal(t, "hello there", message.Text)
}

func TestHubReportsRejectedFrames(t *testing.T) {
	f := setupHubFixture(t)
	conn := f.dial(t)

	require.NoError(t, conn.WriteJSON(inboundFrame{Text: "   "}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var frame struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(payload, &frame))
	assert.Equal(t, domain.ErrEmptyMessage.Error(), frame.Error)

	var count int64
	require.NoError(t, f.db.Model(&domain.Message{}).Count(&count).Error)
	assert.Zero(t, count)
}
