package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	Inference  InferenceConfig
	Classifier ClassifierConfig
	Matcher    MatcherConfig
	Intake     IntakeConfig
	Extractor  ExtractorConfig
}

// InferenceConfig configures the external document-understanding service (an
// OpenAI-compatible chat-completions API).
type InferenceConfig struct {
	BaseURL        string
	APIKey         string
	Model          string
	RequestTimeout time.Duration
}

// ClassifierConfig carries the classification confidence policy. The spacing of these
// values is policy, not algorithm; they are deliberately configurable.
type ClassifierConfig struct {
	UtilityKeywordConfidence   int
	TransferKeywordConfidence  int
	BankTransferConfidence     int
	PurchaseKeywordConfidence  int
	StatementKeywordConfidence int
	FallbackPaymentConfidence  int
	FallbackReceiptConfidence  int
	UnknownConfidence          int
	PDFTextMaxChars            int
}

// MatcherConfig carries the obligation-matching policy.
type MatcherConfig struct {
	AmountWeight    int
	ConceptWeight   int
	AmountTolerance float64 // fraction of the expected amount, e.g. 0.10
	MinimumScore    int
	MaxCandidates   int
}

// IntakeConfig bounds batch uploads and the persistence retry.
type IntakeConfig struct {
	MaxBatchFiles  int
	MaxFileBytes   int64
	RetryAttempts  int
	RetryBaseDelay time.Duration
}

// ExtractorConfig bounds structured extraction output.
type ExtractorConfig struct {
	MaxStatementItems int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "gastos-receipts-backend")

	viper.SetDefault("INFERENCE_BASE_URL", "https://api.openai.com/v1")
	viper.SetDefault("INFERENCE_API_KEY", "")
	viper.SetDefault("INFERENCE_MODEL", "gpt-4o-mini")
	viper.SetDefault("INFERENCE_TIMEOUT", "60s")

	viper.SetDefault("CLASSIFIER_UTILITY_CONFIDENCE", 95)
	viper.SetDefault("CLASSIFIER_TRANSFER_CONFIDENCE", 85)
	viper.SetDefault("CLASSIFIER_BANK_TRANSFER_CONFIDENCE", 80)
	viper.SetDefault("CLASSIFIER_PURCHASE_CONFIDENCE", 75)
	viper.SetDefault("CLASSIFIER_STATEMENT_CONFIDENCE", 80)
	viper.SetDefault("CLASSIFIER_FALLBACK_PAYMENT_CONFIDENCE", 60)
	viper.SetDefault("CLASSIFIER_FALLBACK_RECEIPT_CONFIDENCE", 50)
	viper.SetDefault("CLASSIFIER_UNKNOWN_CONFIDENCE", 30)
	viper.SetDefault("CLASSIFIER_PDF_TEXT_MAX_CHARS", 4000)

	viper.SetDefault("MATCHER_AMOUNT_WEIGHT", 60)
	viper.SetDefault("MATCHER_CONCEPT_WEIGHT", 40)
	viper.SetDefault("MATCHER_AMOUNT_TOLERANCE", 0.10)
	viper.SetDefault("MATCHER_MINIMUM_SCORE", 30)
	viper.SetDefault("MATCHER_MAX_CANDIDATES", 5)

	viper.SetDefault("INTAKE_MAX_BATCH_FILES", 20)
	viper.SetDefault("INTAKE_MAX_FILE_BYTES", 10*1024*1024)
	viper.SetDefault("INTAKE_RETRY_ATTEMPTS", 3)
	viper.SetDefault("INTAKE_RETRY_BASE_DELAY", "2s")

	viper.SetDefault("EXTRACT_MAX_STATEMENT_ITEMS", 15)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	jwtExpiry, err := time.ParseDuration(viper.GetString("JWT_EXPIRY_DURATION"))
	if err != nil {
		jwtExpiry = time.Hour
		log.Printf("Warning: Invalid JWT_EXPIRY_DURATION. Defaulting to %s.\n", jwtExpiry)
	}
	cfg.JWTExpiryDuration = jwtExpiry

	inferenceTimeout, err := time.ParseDuration(viper.GetString("INFERENCE_TIMEOUT"))
	if err != nil {
		inferenceTimeout = 60 * time.Second
		log.Printf("Warning: Invalid INFERENCE_TIMEOUT. Defaulting to %s.\n", inferenceTimeout)
	}
	cfg.Inference = InferenceConfig{
		BaseURL:        viper.GetString("INFERENCE_BASE_URL"),
		APIKey:         viper.GetString("INFERENCE_API_KEY"),
		Model:          viper.GetString("INFERENCE_MODEL"),
		RequestTimeout: inferenceTimeout,
	}
	if cfg.Inference.APIKey == "" {
		log.Println("Warning: INFERENCE_API_KEY not set. Inference-assisted classification and extraction will fail.")
	}

	cfg.Classifier = ClassifierConfig{
		UtilityKeywordConfidence:   viper.GetInt("CLASSIFIER_UTILITY_CONFIDENCE"),
		TransferKeywordConfidence:  viper.GetInt("CLASSIFIER_TRANSFER_CONFIDENCE"),
		BankTransferConfidence:     viper.GetInt("CLASSIFIER_BANK_TRANSFER_CONFIDENCE"),
		PurchaseKeywordConfidence:  viper.GetInt("CLASSIFIER_PURCHASE_CONFIDENCE"),
		StatementKeywordConfidence: viper.GetInt("CLASSIFIER_STATEMENT_CONFIDENCE"),
		FallbackPaymentConfidence:  viper.GetInt("CLASSIFIER_FALLBACK_PAYMENT_CONFIDENCE"),
		FallbackReceiptConfidence:  viper.GetInt("CLASSIFIER_FALLBACK_RECEIPT_CONFIDENCE"),
		UnknownConfidence:          viper.GetInt("CLASSIFIER_UNKNOWN_CONFIDENCE"),
		PDFTextMaxChars:            viper.GetInt("CLASSIFIER_PDF_TEXT_MAX_CHARS"),
	}

	cfg.Matcher = MatcherConfig{
		AmountWeight:    viper.GetInt("MATCHER_AMOUNT_WEIGHT"),
		ConceptWeight:   viper.GetInt("MATCHER_CONCEPT_WEIGHT"),
		AmountTolerance: viper.GetFloat64("MATCHER_AMOUNT_TOLERANCE"),
		MinimumScore:    viper.GetInt("MATCHER_MINIMUM_SCORE"),
		MaxCandidates:   viper.GetInt("MATCHER_MAX_CANDIDATES"),
	}

	retryBaseDelay, err := time.ParseDuration(viper.GetString("INTAKE_RETRY_BASE_DELAY"))
	if err != nil {
		retryBaseDelay = 2 * time.Second
	}
	cfg.Intake = IntakeConfig{
		MaxBatchFiles:  viper.GetInt("INTAKE_MAX_BATCH_FILES"),
		MaxFileBytes:   viper.GetInt64("INTAKE_MAX_FILE_BYTES"),
		RetryAttempts:  viper.GetInt("INTAKE_RETRY_ATTEMPTS"),
		RetryBaseDelay: retryBaseDelay,
	}

	cfg.Extractor = ExtractorConfig{
		MaxStatementItems: viper.GetInt("EXTRACT_MAX_STATEMENT_ITEMS"),
	}

	return cfg, nil
}
