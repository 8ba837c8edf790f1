package handlers

import (
	"fmt"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/teamboard-api/internal/dto"
	"github.com/yukikurage/teamboard-api/internal/models"
)

func (suite *HandlersTestSuite) TestCreateProject() {
	user := suite.createTestUser("alice")

	body := suite.jsonBody(map[string]interface{}{
		"name":       "Launch",
		"content":    "Q3 launch",
		"end_date":   "2030-06-30",
		"created_by": fmt.Sprint(user.ID),
	})
	c, w := suite.createAuthContext("POST", "/api/projects", body, user.ID)

	suite.projects.CreateProject(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.CreatedResponse
	suite.decode(w, &response)

	var member models.ProjectMember
	suite.Require().NoError(suite.db.Where("project_id = ? AND user_id = ?", response.ID, user.ID).First(&member).Error)
	assert.Equal(suite.T(), models.RoleManager, member.Role)
}

func (suite *HandlersTestSuite) TestCreateProject_MissingName() {
	user := suite.createTestUser("alice")

	c, w := suite.createAuthContext("POST", "/api/projects", suite.jsonBody(map[string]string{"content": "x"}), user.ID)

	suite.projects.CreateProject(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestCreateProject_InvalidEndDate() {
	user := suite.createTestUser("alice")

	body := suite.jsonBody(map[string]string{"name": "Launch", "end_date": "next tuesday"})
	c, w := suite.createAuthContext("POST", "/api/projects", body, user.ID)

	suite.projects.CreateProject(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestListProjects() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	suite.createTestProject("Mine", alice)
	suite.createTestProject("Theirs", bob)

	c, w := suite.createAuthContext("GET", fmt.Sprintf("/api/projects?userId=%d", alice.ID), nil, alice.ID)

	suite.projects.ListProjects(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response []dto.ProjectDTO
	suite.decode(w, &response)
	suite.Require().Len(response, 1)
	assert.Equal(suite.T(), "Mine", response[0].ProjectName)
	assert.Equal(suite.T(), "alice", response[0].OwnerName)
	assert.Equal(suite.T(), models.RoleManager, response[0].RoleInProject)
}

func (suite *HandlersTestSuite) TestGetProject() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	project := suite.createTestProject("Launch", alice)
	suite.addTestMember(project, bob, models.RoleMember)

	c, w := suite.createAuthContext("GET", "/api/projects/1", nil, alice.ID, param("projectId", project.ID))

	suite.projects.GetProject(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.ProjectDetailDTO
	suite.decode(w, &response)
	assert.Equal(suite.T(), "Launch", response.Project.ProjectName)
	assert.Len(suite.T(), response.Members, 2)
}

func (suite *HandlersTestSuite) TestUpdateProject_RequiresManager() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	project := suite.createTestProject("Launch", alice)
	suite.addTestMember(project, bob, models.RoleMember)

	body := suite.jsonBody(map[string]interface{}{"name": "Renamed", "userId": bob.ID})
	c, w := suite.createAuthContext("PUT", "/api/projects/1", body, bob.ID, param("projectId", project.ID))
	suite.projects.UpdateProject(c)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	body = suite.jsonBody(map[string]interface{}{"name": "Renamed", "userId": alice.ID})
	c, w = suite.createAuthContext("PUT", "/api/projects/1", body, alice.ID, param("projectId", project.ID))
	suite.projects.UpdateProject(c)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.ProjectDTO
	suite.decode(w, &response)
	assert.Equal(suite.T(), "Renamed", response.ProjectName)
}

func (suite *HandlersTestSuite) TestDeleteProject() {
	alice := suite.createTestUser("alice")
	project := suite.createTestProject("Launch", alice)
	suite.createTestTask("Task", project, alice)

	c, w := suite.createAuthContext("DELETE", "/api/projects/1", nil, alice.ID, param("projectId", project.ID))

	suite.projects.DeleteProject(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Zero(suite.T(), suite.countRows(&models.Project{}))
	assert.Zero(suite.T(), suite.countRows(&models.Task{}))
	assert.Zero(suite.T(), suite.countRows(&models.ProjectMember{}))
}

func (suite *HandlersTestSuite) TestDeleteProject_NotFound() {
	alice := suite.createTestUser("alice")

	c, w := suite.createAuthContext("DELETE", "/api/projects/7", nil, alice.ID, param("projectId", 7))

	suite.projects.DeleteProject(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestMembers_OwnerAndManager walks the owner/manager scenario through the member handlers
func (suite *HandlersTestSuite) TestMembers_OwnerAndManager() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	project := suite.createTestProject("Launch", alice)
	projectParam := param("projectId", project.ID)

	c, w := suite.createAuthContext("POST", "/api/projects/1/users",
		suite.jsonBody(map[string]interface{}{"username": "bob", "requesterId": alice.ID}), alice.ID, projectParam)
	suite.members.AddMember(c)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	c, w = suite.createAuthContext("PUT", "/api/projects/1/members/2",
		suite.jsonBody(map[string]interface{}{"role": "manager", "requesterId": alice.ID}), alice.ID,
		projectParam, param("memberId", bob.ID))
	suite.members.ChangeRole(c)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	c, w = suite.createAuthContext("DELETE", "/api/projects/1/members/1",
		suite.jsonBody(map[string]interface{}{"requesterId": bob.ID}), bob.ID,
		projectParam, param("memberId", alice.ID))
	suite.members.RemoveMember(c)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	c, w = suite.createAuthContext("DELETE", "/api/projects/1/members/2", nil, bob.ID,
		projectParam, param("memberId", bob.ID))
	suite.members.RemoveMember(c)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	c, w = suite.createAuthContext("GET", "/api/projects/1/users", nil, bob.ID, projectParam)
	suite.members.ListMembers(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	var members []dto.MemberDTO
	suite.decode(w, &members)
	suite.Require().Len(members, 2)
	assert.Equal(suite.T(), alice.ID, members[0].UserID)
	assert.Equal(suite.T(), models.RoleManager, members[1].RoleInProject)
}

func (suite *HandlersTestSuite) TestChangeRole_InvalidRole() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	project := suite.createTestProject("Launch", alice)
	suite.addTestMember(project, bob, models.RoleMember)

	c, w := suite.createAuthContext("PUT", "/api/projects/1/members/2",
		suite.jsonBody(map[string]interface{}{"role": "admin"}), alice.ID,
		param("projectId", project.ID), param("memberId", bob.ID))
	suite.members.ChangeRole(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestTransferOwnership() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	carol := suite.createTestUser("carol")
	project := suite.createTestProject("Launch", alice)
	suite.addTestMember(project, bob, models.RoleMember)

	c, w := suite.createAuthContext("PUT", "/api/projects/1/owner",
		suite.jsonBody(map[string]interface{}{"newOwnerId": carol.ID, "requesterId": alice.ID}), alice.ID,
		param("projectId", project.ID))
	suite.members.TransferOwnership(c)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	c, w = suite.createAuthContext("PUT", "/api/projects/1/owner",
		suite.jsonBody(map[string]interface{}{"newOwnerId": fmt.Sprint(bob.ID)}), alice.ID,
		param("projectId", project.ID))
	suite.members.TransferOwnership(c)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var updated models.Project
	suite.Require().NoError(suite.db.First(&updated, project.ID).Error)
	assert.Equal(suite.T(), bob.ID, updated.CreatedBy)
}

func (suite *HandlersTestSuite) TestListActivity() {
	alice := suite.createTestUser("alice")

	c, w := suite.createAuthContext("POST", "/api/projects",
		suite.jsonBody(map[string]string{"name": "Launch"}), alice.ID)
	suite.projects.CreateProject(c)
	suite.Require().Equal(http.StatusCreated, w.Code)

	var created dto.CreatedResponse
	suite.decode(w, &created)

	c, w = suite.createAuthContext("GET", fmt.Sprintf("/api/activity_logs?projectId=%d&page=1&limit=10", created.ID), nil, alice.ID)
	suite.activity.ListActivity(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	var response dto.ActivityListResponse
	suite.decode(w, &response)
	suite.Require().Len(response.Logs, 1)
	assert.Equal(suite.T(), "project_created", response.Logs[0].ActionType)
	assert.Equal(suite.T(), int64(1), response.Pagination.Total)
	assert.Equal(suite.T(), 10, response.Pagination.Limit)

	c, w = suite.createAuthContext("GET", "/api/activity_logs", nil, alice.ID)
	suite.activity.ListActivity(c)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}
