package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"

	"github.com/carlos-israelj/banking-ai-agent/agent"
	"github.com/carlos-israelj/banking-ai-agent/banking/corebank"
	"github.com/carlos-israelj/banking-ai-agent/internal/config"
	"github.com/carlos-israelj/banking-ai-agent/knowledge"
	"github.com/carlos-israelj/banking-ai-agent/knowledge/qdrantindex"
	"github.com/carlos-israelj/banking-ai-agent/llm"
	"github.com/carlos-israelj/banking-ai-agent/security"
	"github.com/carlos-israelj/banking-ai-agent/security/sessions"
	"github.com/carlos-israelj/banking-ai-agent/server"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()

	c := config.New()
	displayAppname(c.GetAppName())

	agentFactory, err := buildAgentFactory(c)
	if err != nil {
		return fmt.Errorf("build agent factory: %w", err)
	}

	srv, err := server.New(c, agentFactory)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

// buildAgentFactory wires the shared collaborators once and returns a factory
// that creates one agent per conversation on top of them.
func buildAgentFactory(c config.Config) (server.AgentFactory, error) {
	sessionRepo, err := sessions.NewRepo(c.GetSessionStoreDriver(), c.GetRedisAddr(), c.GetSessionTimeout())
	if err != nil {
		return nil, fmt.Errorf("sessions.NewRepo: %w", err)
	}

	secmgr, err := security.NewManager(sessionRepo, security.ManagerParams{
		SessionTimeout:      c.GetSessionTimeout(),
		MaxFailedAttempts:   c.GetMaxFailedAttempts(),
		RateLimitRequests:   c.GetRateLimitRequests(),
		RateLimitWindow:     c.GetRateLimitWindow(),
		MaxInputLength:      c.GetMaxInputLength(),
		AmountMaskThreshold: c.GetAmountMaskThreshold(),
	})
	if err != nil {
		return nil, fmt.Errorf("security.NewManager: %w", err)
	}

	llmClient, err := llm.NewClient(llm.ProviderConfig{
		Provider:       c.GetModelProvider(),
		Model:          c.GetModelName(),
		EmbeddingModel: c.GetEmbeddingModel(),
		APIKey:         c.GetModelAPIKey(),
		Timeout:        c.GetToolTimeout(),
		RetryAttempts:  c.GetToolRetryAttempts(),
	})
	if err != nil {
		return nil, fmt.Errorf("llm.NewClient: %w", err)
	}

	retriever, err := buildRetriever(c, llmClient)
	if err != nil {
		return nil, fmt.Errorf("build retriever: %w", err)
	}

	executor := corebank.NewService()

	genCfg := llm.GenerationConfig{
		Temperature: c.GetModelTemperature(),
		MaxTokens:   c.GetModelMaxTokens(),
		TopP:        c.GetModelTopP(),
		TopK:        c.GetModelTopK(),
	}

	return func() (*agent.Agent, error) {
		return agent.New(agent.Deps{
			LLM:       llmClient,
			Executor:  executor,
			Retriever: retriever,
			Security:  secmgr,
		}, agent.Params{
			Generation:  genCfg,
			ToolTimeout: c.GetToolTimeout(),
			ToolRetries: c.GetToolRetryAttempts(),
			MaxHistory:  c.GetMaxHistoryLength(),
			TopKResults: c.GetTopKResults(),
		})
	}, nil
}

// buildRetriever selects the retrieval mode: the keyword-scored local corpus,
// or a Qdrant embedding index built from the same corpus.
func buildRetriever(c config.Config, llmClient llm.Client) (knowledge.Retriever, error) {
	base, err := knowledge.NewBase(c.GetFAQsFile())
	if err != nil {
		return nil, fmt.Errorf("knowledge.NewBase: %w", err)
	}

	if c.GetRetrieverMode() != "embedding" {
		return base, nil
	}

	embedder, ok := llmClient.(llm.Embedder)
	if !ok {
		return nil, fmt.Errorf("model provider %q does not support embeddings", c.GetModelProvider())
	}

	index, err := qdrantindex.New(qdrantindex.Config{
		URL:            c.GetQdrantURL(),
		CollectionName: c.GetQdrantCollection(),
		APIKey:         c.GetQdrantAPIKey(),
		ScoreThreshold: float32(c.GetSimilarityThreshold()),
	}, embedder)
	if err != nil {
		return nil, fmt.Errorf("qdrantindex.New: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := index.Rebuild(ctx, base.Entries()); err != nil {
		return nil, fmt.Errorf("qdrantindex rebuild: %w", err)
	}

	return index, nil
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
