package tutor

import (
	"context"
	"errors"
	"fmt"
	"io"

	"jlpt-tutor/llm"
	"jlpt-tutor/llm/rag"
	"jlpt-tutor/pubsub"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"
)

// Runtime drives one interactive session. Each Run call processes a single
// user turn sequentially: retrieve, assemble, stream, commit. Progress is
// published on the broker for the UI to render; the UI never touches the
// stores directly.
type Runtime struct {
	chatModel model.BaseChatModel
	retriever *rag.Retriever
	ingestor  *rag.Ingestor
	store     ConversationStore
	broker    *pubsub.Broker[llm.Message]
	topK      int

	ctx    context.Context
	cancel context.CancelFunc
}

// NewRuntime wires a session runtime. topK <= 0 falls back to the retriever
// default.
func NewRuntime(ctx context.Context, chatModel model.BaseChatModel, retriever *rag.Retriever, ingestor *rag.Ingestor, topK int) *Runtime {
	childCtx, cancel := context.WithCancel(ctx)
	return &Runtime{
		chatModel: chatModel,
		retriever: retriever,
		ingestor:  ingestor,
		store:     NewMemoryStore(SystemPrompt),
		broker:    pubsub.NewBroker[llm.Message](),
		topK:      topK,
		ctx:       childCtx,
		cancel:    cancel,
	}
}

// Run processes one user turn. The user's message is committed to history up
// front so it survives a failed generation; the assistant's answer is
// committed only once the stream has been fully (or at least partially,
// non-emptily) consumed without error.
func (r *Runtime) Run(userText string, lessonSel, sublessonSel rag.Selection) error {
	userMsg := llm.Message{Role: llm.RoleUser, Content: userText}
	if err := r.store.Add(r.ctx, userMsg); err != nil {
		return fmt.Errorf("storing user message: %w", err)
	}
	r.broker.Publish(pubsub.CreatedEvent, userMsg)

	retrieved, err := r.retriever.Retrieve(r.ctx, userText, r.topK, lessonSel, sublessonSel)
	if err != nil {
		logrus.WithError(err).Error("retrieval failed")
		r.publishError(fmt.Sprintf("Retrieval error: %v", err))
		return err
	}

	history, err := r.store.List(r.ctx)
	if err != nil {
		return fmt.Errorf("listing history: %w", err)
	}
	working := AssemblePrompt(history, retrieved, userText, lessonSel, sublessonSel)

	answer, err := r.collectStream(working)
	if err != nil {
		// Turn-level recovery: the partial accumulation is discarded and
		// nothing is committed; the user's question stays in history.
		logrus.WithError(err).Error("generation stream failed")
		r.publishError(fmt.Sprintf("Generation error: %v", err))
		return nil
	}

	if answer == "" {
		r.publishError("The model returned an empty response.")
		return nil
	}

	assistantMsg := llm.Message{
		Role:    llm.RoleAssistant,
		Content: answer,
		Sources: rag.AttachSources(retrieved),
	}
	if err := r.store.Add(r.ctx, assistantMsg); err != nil {
		return fmt.Errorf("storing assistant message: %w", err)
	}
	r.broker.Publish(pubsub.CommittedEvent, assistantMsg)
	return nil
}

// collectStream consumes the generation stream token by token, republishing
// the running accumulation after each token for incremental display.
func (r *Runtime) collectStream(working []*schema.Message) (string, error) {
	reader, err := r.chatModel.Stream(r.ctx, working)
	if err != nil {
		return "", fmt.Errorf("starting generation stream: %w", err)
	}
	defer reader.Close()

	var accum string
	for {
		chunk, err := reader.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("reading generation stream: %w", err)
		}
		if chunk.Content == "" {
			continue
		}
		accum += chunk.Content
		r.broker.Publish(pubsub.StreamEvent, llm.Message{Role: llm.RoleAssistant, Content: accum})
	}
	return accum, nil
}

// Rebuild wipes the vector index and re-ingests the corpus. The conversation
// history is kept.
func (r *Runtime) Rebuild() error {
	if err := r.ingestor.EnsureIngested(r.ctx, true); err != nil {
		logrus.WithError(err).Error("rebuild failed")
		r.publishError(fmt.Sprintf("Rebuild error: %v", err))
		return err
	}
	r.broker.Publish(pubsub.ResetEvent, llm.Message{
		Role:    llm.RoleSystem,
		Content: "Vector index wiped and rebuilt from the corpus.",
	})
	return nil
}

func (r *Runtime) publishError(text string) {
	r.broker.Publish(pubsub.ErrorEvent, llm.Message{Role: llm.RoleSystem, Content: text})
}

// Broker exposes the event bus for UI subscriptions.
func (r *Runtime) Broker() *pubsub.Broker[llm.Message] {
	return r.broker
}

// Store exposes the conversation history.
func (r *Runtime) Store() ConversationStore {
	return r.store
}

// Close tears the session down; an in-flight stream observes the cancelled
// context and ends.
func (r *Runtime) Close() {
	r.cancel()
	r.broker.Shutdown()
}
