package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/teamboard-api/internal/dto"
	"github.com/yukikurage/teamboard-api/internal/models"
)

// TestCreateTask_Success tests successful task creation
func (suite *HandlersTestSuite) TestCreateTask_Success() {
	user := suite.createTestUser("alice")
	project := suite.createTestProject("Launch", user)

	body := suite.jsonBody(map[string]interface{}{
		"title":              "New Task",
		"content":            "New Content",
		"due_date":           "2030-01-15",
		"created_by_user_id": user.ID,
	})
	c, w := suite.createAuthContext("POST", "/api/projects/1/tasks", body, user.ID, param("projectId", project.ID))

	suite.tasks.CreateTask(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.CreatedResponse
	suite.decode(w, &response)

	var task models.Task
	suite.Require().NoError(suite.db.First(&task, response.ID).Error)
	assert.Equal(suite.T(), "New Task", task.Name)
	assert.Equal(suite.T(), models.TaskStatusTodo, task.Status)
	suite.Require().NotNil(task.DueDate)
	assert.Equal(suite.T(), time.Date(2030, 1, 15, 0, 0, 0, 0, time.UTC), task.DueDate.UTC())
}

// TestCreateTask_InvalidRequest tests task creation without a title
func (suite *HandlersTestSuite) TestCreateTask_InvalidRequest() {
	user := suite.createTestUser("alice")
	project := suite.createTestProject("Launch", user)

	body := suite.jsonBody(map[string]interface{}{"content": "no title"})
	c, w := suite.createAuthContext("POST", "/api/projects/1/tasks", body, user.ID, param("projectId", project.ID))

	suite.tasks.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCreateTask_InvalidProjectID tests that a non-numeric path id is a 400
func (suite *HandlersTestSuite) TestCreateTask_InvalidProjectID() {
	user := suite.createTestUser("alice")

	body := suite.jsonBody(map[string]interface{}{"title": "Task"})
	c, w := suite.createAuthContext("POST", "/api/projects/abc/tasks", body, user.ID, param("projectId", "abc"))

	suite.tasks.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCreateTask_ImpersonationRejected tests that a body identity must match the session
func (suite *HandlersTestSuite) TestCreateTask_ImpersonationRejected() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	project := suite.createTestProject("Launch", alice)

	body := suite.jsonBody(map[string]interface{}{"title": "Task", "created_by_user_id": bob.ID})
	c, w := suite.createAuthContext("POST", "/api/projects/1/tasks", body, alice.ID, param("projectId", project.ID))

	suite.tasks.CreateTask(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
	assert.Zero(suite.T(), suite.countRows(&models.Task{}))
}

// TestCreateTask_NonNumericIdentity tests that a malformed identity field is a 400
func (suite *HandlersTestSuite) TestCreateTask_NonNumericIdentity() {
	alice := suite.createTestUser("alice")
	project := suite.createTestProject("Launch", alice)

	body := suite.jsonBody(map[string]interface{}{"title": "Task", "created_by_user_id": "alice"})
	c, w := suite.createAuthContext("POST", "/api/projects/1/tasks", body, alice.ID, param("projectId", project.ID))

	suite.tasks.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCreateTask_ProjectNotFound tests task creation in a missing project
func (suite *HandlersTestSuite) TestCreateTask_ProjectNotFound() {
	user := suite.createTestUser("alice")

	body := suite.jsonBody(map[string]interface{}{"title": "Task"})
	c, w := suite.createAuthContext("POST", "/api/projects/99/tasks", body, user.ID, param("projectId", 99))

	suite.tasks.CreateTask(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestGetTask_Success tests the task detail view
func (suite *HandlersTestSuite) TestGetTask_Success() {
	user := suite.createTestUser("alice")
	project := suite.createTestProject("Launch", user)
	task := suite.createTestTask("Test Task", project, user)

	c, w := suite.createAuthContext("GET", "/api/tasks/1", nil, user.ID, param("taskId", task.ID))

	suite.tasks.GetTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskDetailDTO
	suite.decode(w, &response)
	assert.Equal(suite.T(), "Test Task", response.TaskName)
	assert.Equal(suite.T(), "alice", response.CreatorUsername)
	suite.Require().Len(response.Assignees, 1)
	assert.Equal(suite.T(), user.ID, response.Assignees[0].UserID)
	assert.NotNil(suite.T(), response.Comments)
}

// TestGetTask_NotFound tests that a missing task is a 404
func (suite *HandlersTestSuite) TestGetTask_NotFound() {
	user := suite.createTestUser("alice")

	c, w := suite.createAuthContext("GET", "/api/tasks/42", nil, user.ID, param("taskId", 42))

	suite.tasks.GetTask(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestListTasks_Success tests listing a project's tasks
func (suite *HandlersTestSuite) TestListTasks_Success() {
	user := suite.createTestUser("alice")
	project := suite.createTestProject("Launch", user)
	suite.createTestTask("Task 1", project, user)
	suite.createTestTask("Task 2", project, user)

	c, w := suite.createAuthContext("GET", "/api/projects/1/tasks", nil, user.ID, param("projectId", project.ID))

	suite.tasks.ListTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response []dto.TaskDTO
	suite.decode(w, &response)
	assert.Len(suite.T(), response, 2)
}

// TestUpdateTask_Success tests updating only the provided fields
func (suite *HandlersTestSuite) TestUpdateTask_Success() {
	user := suite.createTestUser("alice")
	project := suite.createTestProject("Launch", user)
	task := suite.createTestTask("Original Title", project, user)

	body := suite.jsonBody(map[string]interface{}{
		"title":       "Updated Title",
		"status":      "doing",
		"requesterId": user.ID,
	})
	c, w := suite.createAuthContext("PUT", "/api/tasks/1", body, user.ID, param("taskId", task.ID))

	suite.tasks.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskDTO
	suite.decode(w, &response)
	assert.Equal(suite.T(), "Updated Title", response.TaskName)
	assert.Equal(suite.T(), models.TaskStatusDoing, response.Status)
	assert.Equal(suite.T(), "Test Content", response.Content)
}

// TestUpdateTask_NullDueDate tests updating due_date to null
func (suite *HandlersTestSuite) TestUpdateTask_NullDueDate() {
	user := suite.createTestUser("alice")
	project := suite.createTestProject("Launch", user)
	task := suite.createTestTask("Task with Due Date", project, user)
	dueDate := time.Now().Add(24 * time.Hour)
	suite.Require().NoError(suite.db.Model(task).Update("due_date", dueDate).Error)

	body := suite.jsonBody(map[string]interface{}{
		"due_date": nil,
	})
	c, w := suite.createAuthContext("PUT", "/api/tasks/1", body, user.ID, param("taskId", task.ID))

	suite.tasks.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskDTO
	suite.decode(w, &response)
	assert.Nil(suite.T(), response.DueDate)
}

// TestUpdateTask_InvalidStatus tests that an unknown status is rejected
func (suite *HandlersTestSuite) TestUpdateTask_InvalidStatus() {
	user := suite.createTestUser("alice")
	project := suite.createTestProject("Launch", user)
	task := suite.createTestTask("Test Task", project, user)

	body := suite.jsonBody(map[string]interface{}{"status": "archived"})
	c, w := suite.createAuthContext("PUT", "/api/tasks/1", body, user.ID, param("taskId", task.ID))

	suite.tasks.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestDeleteTask_Success tests deletion by a project manager
func (suite *HandlersTestSuite) TestDeleteTask_Success() {
	user := suite.createTestUser("alice")
	project := suite.createTestProject("Launch", user)
	task := suite.createTestTask("Task to Delete", project, user)

	c, w := suite.createAuthContext("DELETE", "/api/tasks/1", nil, user.ID, param("taskId", task.ID))

	suite.tasks.DeleteTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Zero(suite.T(), suite.countRows(&models.Task{}))
}

// TestDeleteTask_NotManager tests that plain members cannot delete tasks
func (suite *HandlersTestSuite) TestDeleteTask_NotManager() {
	owner := suite.createTestUser("alice")
	member := suite.createTestUser("bob")
	project := suite.createTestProject("Launch", owner)
	suite.addTestMember(project, member, models.RoleMember)
	task := suite.createTestTask("Task", project, member)

	body := suite.jsonBody(map[string]interface{}{"userId": member.ID})
	c, w := suite.createAuthContext("DELETE", "/api/tasks/1", body, member.ID, param("taskId", task.ID))

	suite.tasks.DeleteTask(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
	assert.Equal(suite.T(), int64(1), suite.countRows(&models.Task{}))
}

// TestListDueTasks_Impersonation tests that userId must name the signed-in user
func (suite *HandlersTestSuite) TestListDueTasks_Impersonation() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")

	c, w := suite.createAuthContext("GET", fmt.Sprintf("/api/tasks/due_date?userId=%d", bob.ID), nil, alice.ID)
	suite.tasks.ListDueTasks(c)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	c, w = suite.createAuthContext("GET", "/api/tasks/due_date?userId=bob", nil, alice.ID)
	suite.tasks.ListDueTasks(c)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	c, w = suite.createAuthContext("GET", "/api/tasks/due_date", nil, alice.ID)
	suite.tasks.ListDueTasks(c)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

// TestGenerateTasks_NotConfigured tests the response without an AI service
func (suite *HandlersTestSuite) TestGenerateTasks_NotConfigured() {
	user := suite.createTestUser("alice")
	project := suite.createTestProject("Launch", user)

	body := suite.jsonBody(map[string]interface{}{"text": "plan the launch"})
	c, w := suite.createAuthContext("POST", "/api/projects/1/tasks/generate", body, user.ID, param("projectId", project.ID))

	suite.tasks.GenerateTasks(c)

	assert.Equal(suite.T(), http.StatusServiceUnavailable, w.Code)
}

func (suite *HandlersTestSuite) countRows(model interface{}) int64 {
	var n int64
	suite.Require().NoError(suite.db.Model(model).Count(&n).Error)
	return n
}
