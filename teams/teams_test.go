package teams

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"unisport/auth"
	"unisport/middlewares"
	"unisport/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Tournament{},
		&models.Game{},
		&models.Team{},
		&models.TeamMember{},
		&models.Notification{},
		&models.GameRegistration{},
		&models.CartItem{},
	))
	return db
}

func newRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	r := gin.New()
	authed := r.Group("/", middlewares.RequireAuth(nil, logger))
	authed.POST("/team", func(c *gin.Context) { CreateTeam(c, db, logger) })
	authed.POST("/team/:teamId/members", func(c *gin.Context) { InviteMember(c, db, nil, logger) })
	authed.POST("/team/invitation/accept", func(c *gin.Context) { AcceptInvitation(c, db, logger) })
	authed.POST("/team/invitation/reject", func(c *gin.Context) { RejectInvitation(c, db, logger) })
	authed.DELETE("/team/:teamId/members/:memberId", func(c *gin.Context) { RemoveMember(c, db, logger) })
	authed.PUT("/team/:teamId/members/:memberId/replace", func(c *gin.Context) { ReplaceMember(c, db, nil, logger) })
	authed.POST("/team/:teamId/confirm", func(c *gin.Context) { ConfirmTeam(c, db, logger) })
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	out := map[string]interface{}{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func seedUser(t *testing.T, db *gorm.DB, studentID, gender string) (models.User, string) {
	t.Helper()
	user := models.User{
		StudentID:       studentID,
		Email:           studentID + "@stu.unisport.edu",
		PasswordHash:    "x",
		FullName:        "Student " + studentID,
		Gender:          gender,
		ProfileComplete: true,
		Role:            models.RoleNameStudent,
	}
	require.NoError(t, db.Create(&user).Error)
	token, err := auth.GenerateToken(user)
	require.NoError(t, err)
	return user, token
}

func seedGame(t *testing.T, db *gorm.DB, category string, teamSize int, deadline time.Time) models.Game {
	t.Helper()
	tournament := models.Tournament{
		Name:                 "Inter-Faculty Cup",
		Season:               "2026",
		RegistrationDeadline: deadline,
	}
	require.NoError(t, db.Create(&tournament).Error)
	game := models.Game{
		TournamentID: tournament.ID,
		Name:         "Badminton Doubles",
		Category:     category,
		TeamSize:     teamSize,
		Fee:          1500,
	}
	require.NoError(t, db.Create(&game).Error)
	return game
}

func seedTeam(t *testing.T, db *gorm.DB, leader models.User, game models.Game) models.Team {
	t.Helper()
	team := models.Team{
		GameID:     game.ID,
		LeaderID:   leader.ID,
		Name:       "Team " + leader.StudentID,
		Status:     models.TeamPending,
		InviteCode: uuid.NewString(),
	}
	require.NoError(t, db.Create(&team).Error)
	require.NoError(t, db.Create(&models.TeamMember{
		TeamID: team.ID,
		UserID: leader.ID,
		Role:   models.RoleLeader,
		Status: models.MemberConfirmed,
	}).Error)
	teamID := team.ID
	require.NoError(t, db.Create(&models.GameRegistration{
		GameID:        game.ID,
		UserID:        leader.ID,
		TeamID:        &teamID,
		PaymentStatus: models.PaymentPending,
	}).Error)
	return team
}

func seedPendingInvite(t *testing.T, db *gorm.DB, team models.Team, user models.User) models.Notification {
	t.Helper()
	require.NoError(t, db.Create(&models.TeamMember{
		TeamID: team.ID,
		UserID: user.ID,
		Role:   models.RoleMember,
		Status: models.MemberPending,
	}).Error)
	teamID := team.ID
	notification := models.Notification{
		UserID:  user.ID,
		Type:    models.NotificationTeamRequest,
		TeamID:  &teamID,
		Status:  models.NotificationUnread,
		Message: "invited",
	}
	require.NoError(t, db.Create(&notification).Error)
	return notification
}

func TestCreateTeam(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db)
	deadline := time.Now().Add(72 * time.Hour)
	game := seedGame(t, db, models.CategoryMix, 2, deadline)
	leader, token := seedUser(t, db, "SC-210001", models.GenderMale)

	w, out := doJSON(t, r, http.MethodPost, "/team", token, gin.H{
		"studentId": leader.StudentID,
		"gameId":    game.ID,
		"teamName":  "Smash Bros",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, true, out["success"])

	// Leader row, registration and cart item are created together.
	var member models.TeamMember
	require.NoError(t, db.Where("user_id = ?", leader.ID).First(&member).Error)
	assert.Equal(t, models.RoleLeader, member.Role)
	assert.Equal(t, models.MemberConfirmed, member.Status)

	var registration models.GameRegistration
	require.NoError(t, db.Where("user_id = ? AND game_id = ?", leader.ID, game.ID).First(&registration).Error)
	assert.Equal(t, models.PaymentPending, registration.PaymentStatus)
	require.NotNil(t, registration.TeamID)

	var item models.CartItem
	require.NoError(t, db.Where("user_id = ?", leader.ID).First(&item).Error)
	assert.Equal(t, 1500, item.Amount)
}

func TestCreateTeamGuards(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db)

	t.Run("deadline passed", func(t *testing.T) {
		game := seedGame(t, db, models.CategoryMale, 2, time.Now().Add(-time.Hour))
		user, token := seedUser(t, db, "SC-210010", models.GenderMale)
		w, out := doJSON(t, r, http.MethodPost, "/team", token, gin.H{
			"studentId": user.StudentID, "gameId": game.ID, "teamName": "Late",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, out["message"], "deadline")
	})

	t.Run("individual game", func(t *testing.T) {
		game := seedGame(t, db, models.CategoryMale, 1, time.Now().Add(time.Hour))
		user, token := seedUser(t, db, "SC-210011", models.GenderMale)
		w, _ := doJSON(t, r, http.MethodPost, "/team", token, gin.H{
			"studentId": user.StudentID, "gameId": game.ID, "teamName": "Solo",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("already registered", func(t *testing.T) {
		game := seedGame(t, db, models.CategoryMale, 2, time.Now().Add(time.Hour))
		user, token := seedUser(t, db, "SC-210012", models.GenderMale)
		require.NoError(t, db.Create(&models.GameRegistration{
			GameID: game.ID, UserID: user.ID, PaymentStatus: models.PaymentPending,
		}).Error)
		w, _ := doJSON(t, r, http.MethodPost, "/team", token, gin.H{
			"studentId": user.StudentID, "gameId": game.ID, "teamName": "Dup",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("already on a team", func(t *testing.T) {
		game := seedGame(t, db, models.CategoryMale, 2, time.Now().Add(time.Hour))
		leader, _ := seedUser(t, db, "SC-210013", models.GenderMale)
		team := seedTeam(t, db, leader, game)
		member, token := seedUser(t, db, "SC-210014", models.GenderMale)
		seedPendingInvite(t, db, team, member)
		w, _ := doJSON(t, r, http.MethodPost, "/team", token, gin.H{
			"studentId": member.StudentID, "gameId": game.ID, "teamName": "Second",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("student id must match token", func(t *testing.T) {
		game := seedGame(t, db, models.CategoryMale, 2, time.Now().Add(time.Hour))
		_, token := seedUser(t, db, "SC-210015", models.GenderMale)
		w, _ := doJSON(t, r, http.MethodPost, "/team", token, gin.H{
			"studentId": "SC-999999", "gameId": game.ID, "teamName": "Spoof",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestConfirmTeam(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db)
	game := seedGame(t, db, models.CategoryMix, 2, time.Now().Add(time.Hour))
	leader, leaderToken := seedUser(t, db, "SC-210020", models.GenderMale)
	team := seedTeam(t, db, leader, game)
	member, _ := seedUser(t, db, "SC-210021", models.GenderFemale)
	seedPendingInvite(t, db, team, member)

	// One member still PENDING blocks confirmation.
	w, out := doJSON(t, r, http.MethodPost, fmt.Sprintf("/team/%d/confirm", team.ID), leaderToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, out["message"], "must confirm before registration can be finalized")

	require.NoError(t, db.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", team.ID, member.ID).
		Update("status", models.MemberConfirmed).Error)

	// Only the leader can confirm.
	_, otherToken := seedUser(t, db, "SC-210022", models.GenderMale)
	w, _ = doJSON(t, r, http.MethodPost, fmt.Sprintf("/team/%d/confirm", team.ID), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, fmt.Sprintf("/team/%d/confirm", team.ID), leaderToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var confirmed models.Team
	require.NoError(t, db.First(&confirmed, team.ID).Error)
	assert.Equal(t, models.TeamConfirmed, confirmed.Status)

	// Confirming twice is refused.
	w, _ = doJSON(t, r, http.MethodPost, fmt.Sprintf("/team/%d/confirm", team.ID), leaderToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveMember(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db)
	game := seedGame(t, db, models.CategoryMix, 2, time.Now().Add(time.Hour))
	leader, leaderToken := seedUser(t, db, "SC-210030", models.GenderMale)
	team := seedTeam(t, db, leader, game)
	member, _ := seedUser(t, db, "SC-210031", models.GenderFemale)
	seedPendingInvite(t, db, team, member)

	var row models.TeamMember
	require.NoError(t, db.Where("team_id = ? AND user_id = ?", team.ID, member.ID).First(&row).Error)

	t.Run("only the leader may remove", func(t *testing.T) {
		_, otherToken := seedUser(t, db, "SC-210032", models.GenderMale)
		w, _ := doJSON(t, r, http.MethodDelete,
			fmt.Sprintf("/team/%d/members/%d", team.ID, row.ID), otherToken,
			gin.H{"studentId": "SC-210032"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("leader row cannot be removed", func(t *testing.T) {
		var leaderRow models.TeamMember
		require.NoError(t, db.Where("team_id = ? AND user_id = ?", team.ID, leader.ID).First(&leaderRow).Error)
		w, _ := doJSON(t, r, http.MethodDelete,
			fmt.Sprintf("/team/%d/members/%d", team.ID, leaderRow.ID), leaderToken,
			gin.H{"studentId": leader.StudentID})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("removal deletes the row and purges notifications", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodDelete,
			fmt.Sprintf("/team/%d/members/%d", team.ID, row.ID), leaderToken,
			gin.H{"studentId": leader.StudentID})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		err := db.Where("team_id = ? AND user_id = ?", team.ID, member.ID).First(&models.TeamMember{}).Error
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		err = db.Where("user_id = ? AND team_id = ?", member.ID, team.ID).First(&models.Notification{}).Error
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestRemoveMemberBlockedAfterPaymentOrDeadline(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db)

	t.Run("paid", func(t *testing.T) {
		game := seedGame(t, db, models.CategoryMale, 2, time.Now().Add(time.Hour))
		leader, leaderToken := seedUser(t, db, "SC-210040", models.GenderMale)
		team := seedTeam(t, db, leader, game)
		member, _ := seedUser(t, db, "SC-210041", models.GenderMale)
		seedPendingInvite(t, db, team, member)
		require.NoError(t, db.Model(&models.GameRegistration{}).
			Where("team_id = ?", team.ID).
			Update("payment_status", models.PaymentPaid).Error)

		var row models.TeamMember
		require.NoError(t, db.Where("team_id = ? AND user_id = ?", team.ID, member.ID).First(&row).Error)
		w, out := doJSON(t, r, http.MethodDelete,
			fmt.Sprintf("/team/%d/members/%d", team.ID, row.ID), leaderToken,
			gin.H{"studentId": leader.StudentID})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, out["message"], "paid")
	})

	t.Run("deadline passed", func(t *testing.T) {
		game := seedGame(t, db, models.CategoryMale, 2, time.Now().Add(time.Minute))
		leader, leaderToken := seedUser(t, db, "SC-210042", models.GenderMale)
		team := seedTeam(t, db, leader, game)
		member, _ := seedUser(t, db, "SC-210043", models.GenderMale)
		seedPendingInvite(t, db, team, member)
		require.NoError(t, db.Model(&models.Tournament{}).
			Where("id = ?", game.TournamentID).
			Update("registration_deadline", time.Now().Add(-time.Minute)).Error)

		var row models.TeamMember
		require.NoError(t, db.Where("team_id = ? AND user_id = ?", team.ID, member.ID).First(&row).Error)
		w, _ := doJSON(t, r, http.MethodDelete,
			fmt.Sprintf("/team/%d/members/%d", team.ID, row.ID), leaderToken,
			gin.H{"studentId": leader.StudentID})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReplaceMember(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db)
	game := seedGame(t, db, models.CategoryMix, 2, time.Now().Add(time.Hour))
	leader, leaderToken := seedUser(t, db, "SC-210050", models.GenderMale)
	team := seedTeam(t, db, leader, game)
	old, _ := seedUser(t, db, "SC-210051", models.GenderFemale)
	seedPendingInvite(t, db, team, old)

	var row models.TeamMember
	require.NoError(t, db.Where("team_id = ? AND user_id = ?", team.ID, old.ID).First(&row).Error)

	t.Run("replacement must pass the gender rule", func(t *testing.T) {
		male, _ := seedUser(t, db, "SC-210052", models.GenderMale)
		w, out := doJSON(t, r, http.MethodPut,
			fmt.Sprintf("/team/%d/members/%d/replace", team.ID, row.ID), leaderToken,
			gin.H{"studentId": leader.StudentID, "newMemberStudentId": male.StudentID})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, out["message"], "gender_mismatch")
	})

	t.Run("replacement succeeds", func(t *testing.T) {
		replacement, _ := seedUser(t, db, "SC-210053", models.GenderFemale)
		w, _ := doJSON(t, r, http.MethodPut,
			fmt.Sprintf("/team/%d/members/%d/replace", team.ID, row.ID), leaderToken,
			gin.H{"studentId": leader.StudentID, "newMemberStudentId": replacement.StudentID})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		// Old member and their notifications are gone.
		err := db.Where("team_id = ? AND user_id = ?", team.ID, old.ID).First(&models.TeamMember{}).Error
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		err = db.Where("user_id = ? AND team_id = ?", old.ID, team.ID).First(&models.Notification{}).Error
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

		// The replacement starts PENDING with a fresh invitation.
		var newRow models.TeamMember
		require.NoError(t, db.Where("team_id = ? AND user_id = ?", team.ID, replacement.ID).First(&newRow).Error)
		assert.Equal(t, models.MemberPending, newRow.Status)
		var notification models.Notification
		require.NoError(t, db.Where("user_id = ? AND team_id = ?", replacement.ID, team.ID).First(&notification).Error)
		assert.Equal(t, models.NotificationTeamRequest, notification.Type)
	})
}
