package store

import (
	"encoding/json"

	"github.com/lattica-health/companion-api/api/pkg/types"
)

func (suite *PostgresStoreTestSuite) TestCreateConversationSummary() {
	conversation := suite.createTestConversation()

	created, err := suite.db.CreateConversationSummary(suite.ctx, &types.ConversationSummary{
		ConversationID: conversation.ID,
		RawTranscript:  json.RawMessage(`[{"role":"user","content":"hi"}]`),
		TopicsCovered:  types.TopicList{"Pain management"},
		QuestionsAsked: types.QuestionList{{Text: "How much does it hurt?"}},
	})
	suite.Require().NoError(err)
	suite.True(created)

	fetched, err := suite.db.GetConversationSummary(suite.ctx, conversation.ID)
	suite.Require().NoError(err)
	suite.Equal(conversation.ID, fetched.ConversationID)
	suite.Equal(types.TopicList{"Pain management"}, fetched.TopicsCovered)
	suite.Require().Len(fetched.QuestionsAsked, 1)
	suite.Equal("How much does it hurt?", fetched.QuestionsAsked[0].Text)
	suite.Nil(fetched.PerceptionNotes)
	suite.False(fetched.Created.IsZero())
}

func (suite *PostgresStoreTestSuite) TestCreateConversationSummaryDuplicateIsNoop() {
	conversation := suite.createTestConversation()

	created, err := suite.db.CreateConversationSummary(suite.ctx, &types.ConversationSummary{
		ConversationID: conversation.ID,
		TopicsCovered:  types.TopicList{"Transportation"},
	})
	suite.Require().NoError(err)
	suite.True(created)

	// a duplicate webhook delivery tries again with different content
	created, err = suite.db.CreateConversationSummary(suite.ctx, &types.ConversationSummary{
		ConversationID: conversation.ID,
		TopicsCovered:  types.TopicList{"Day-of preparation"},
	})
	suite.Require().NoError(err)
	suite.False(created)

	fetched, err := suite.db.GetConversationSummary(suite.ctx, conversation.ID)
	suite.Require().NoError(err)
	suite.Equal(types.TopicList{"Transportation"}, fetched.TopicsCovered)
}

func (suite *PostgresStoreTestSuite) TestGetConversationSummaryNotFound() {
	fetched, err := suite.db.GetConversationSummary(suite.ctx, "conv-does-not-exist")
	suite.ErrorIs(err, ErrNotFound)
	suite.Nil(fetched)
}

func (suite *PostgresStoreTestSuite) TestUpdateSummaryPerceptionNotes() {
	conversation := suite.createTestConversation()

	created, err := suite.db.CreateConversationSummary(suite.ctx, &types.ConversationSummary{
		ConversationID: conversation.ID,
	})
	suite.Require().NoError(err)
	suite.True(created)

	err = suite.db.UpdateSummaryPerceptionNotes(suite.ctx, conversation.ID, "Maya observed that you were mostly calm throughout the session.")
	suite.Require().NoError(err)

	fetched, err := suite.db.GetConversationSummary(suite.ctx, conversation.ID)
	suite.Require().NoError(err)
	suite.Require().NotNil(fetched.PerceptionNotes)
	suite.Contains(*fetched.PerceptionNotes, "mostly calm")
}

func (suite *PostgresStoreTestSuite) TestUpdateSummaryPerceptionNotesMissingSummary() {
	err := suite.db.UpdateSummaryPerceptionNotes(suite.ctx, "conv-does-not-exist", "notes")
	suite.ErrorIs(err, ErrNotFound)
}
