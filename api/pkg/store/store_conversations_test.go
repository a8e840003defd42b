package store

import (
	"time"

	"github.com/lattica-health/companion-api/api/pkg/system"
	"github.com/lattica-health/companion-api/api/pkg/types"
)

func (suite *PostgresStoreTestSuite) createTestConversation() *types.Conversation {
	conversation := &types.Conversation{
		ID:          "conv-" + system.GenerateUUID(),
		PatientName: "Ada",
	}

	created, err := suite.db.CreateConversation(suite.ctx, conversation)
	suite.Require().NoError(err)

	return created
}

func (suite *PostgresStoreTestSuite) TestCreateConversation() {
	conversation := suite.createTestConversation()

	suite.NotEmpty(conversation.ID)
	suite.Equal("Ada", conversation.PatientName)
	suite.False(conversation.Created.IsZero())
	suite.Nil(conversation.EndedAt)
}

func (suite *PostgresStoreTestSuite) TestCreateConversationRequiresID() {
	conversation, err := suite.db.CreateConversation(suite.ctx, &types.Conversation{
		PatientName: "Ada",
	})
	suite.Error(err)
	suite.Nil(conversation)
}

func (suite *PostgresStoreTestSuite) TestGetConversation() {
	created := suite.createTestConversation()

	fetched, err := suite.db.GetConversation(suite.ctx, created.ID)
	suite.Require().NoError(err)
	suite.Equal(created.ID, fetched.ID)
	suite.Equal(created.PatientName, fetched.PatientName)
}

func (suite *PostgresStoreTestSuite) TestGetConversationNotFound() {
	fetched, err := suite.db.GetConversation(suite.ctx, "conv-does-not-exist")
	suite.ErrorIs(err, ErrNotFound)
	suite.Nil(fetched)
}

func (suite *PostgresStoreTestSuite) TestUpdateConversationEnded() {
	created := suite.createTestConversation()

	endedAt := time.Now()
	err := suite.db.UpdateConversationEnded(suite.ctx, created.ID, endedAt, "participant_left")
	suite.Require().NoError(err)

	fetched, err := suite.db.GetConversation(suite.ctx, created.ID)
	suite.Require().NoError(err)
	suite.NotNil(fetched.EndedAt)
	suite.Equal("participant_left", fetched.ShutdownReason)
}

func (suite *PostgresStoreTestSuite) TestUpdateConversationEndedLastWriterWins() {
	created := suite.createTestConversation()

	suite.Require().NoError(suite.db.UpdateConversationEnded(suite.ctx, created.ID, time.Now(), "participant_left"))
	suite.Require().NoError(suite.db.UpdateConversationEnded(suite.ctx, created.ID, time.Now(), "max_call_duration"))

	fetched, err := suite.db.GetConversation(suite.ctx, created.ID)
	suite.Require().NoError(err)
	suite.Equal("max_call_duration", fetched.ShutdownReason)
}

func (suite *PostgresStoreTestSuite) TestUpdateConversationEndedUnknownConversationIsNoop() {
	err := suite.db.UpdateConversationEnded(suite.ctx, "conv-does-not-exist", time.Now(), "unknown")
	suite.NoError(err)
}
