package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App  AppConfig
	NAV  NAVConfig
	JWT  JWTConfig
	HTTP HTTPConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// NAVConfig configuración del gateway SOAP de Dynamics NAV.
// La tabla país→grupo VAT es estática: se carga una sola vez al arrancar.
type NAVConfig struct {
	BaseURL           string // ej. https://nav.example.com:7047/DynamicsNAV/WS/Empresa
	Username          string
	Password          string
	OrderNumberPrefix string // prefijo antepuesto a todo número de pedido/abono
	ShippingAccount   string // cuenta G/L para la línea de envío
	VATCodesPath      string // ruta al JSON país→grupo de registro VAT
}

// JWTConfig configuración del token compartido para los webhooks de eventos.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate comprueba los campos sin los que el cliente NAV no puede construirse.
func (c NAVConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("config: NAV_BASE_URL requerido")
	}
	if c.Username == "" || c.Password == "" {
		return fmt.Errorf("config: credenciales NTLM requeridas (NAV_USERNAME / NAV_PASSWORD)")
	}
	if c.ShippingAccount == "" {
		return fmt.Errorf("config: NAV_SHIPPING_ACCOUNT requerido")
	}
	return nil
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, NAV_BASE_URL, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	// También intenta config.env
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "nav-gateway"),
		},
		NAV: NAVConfig{
			BaseURL:           strings.TrimRight(getString(v, "NAV_BASE_URL", ""), "/"),
			Username:          getString(v, "NAV_USERNAME", ""),
			Password:          getString(v, "NAV_PASSWORD", ""),
			OrderNumberPrefix: getString(v, "NAV_ORDER_NUMBER_PREFIX", ""),
			ShippingAccount:   getString(v, "NAV_SHIPPING_ACCOUNT", ""),
			VATCodesPath:      getString(v, "NAV_VAT_CODES_PATH", "vat_codes.json"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "nav-gateway"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
	}

	return cfg, nil
}

// LoadVATCodes carga la tabla estática país→grupo de registro VAT desde JSON.
// El formato es {"DK": "VAT25", "DE": "VAT19", ...}; claves en mayúsculas.
func LoadVATCodes(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: leer tabla VAT %s: %w", path, err)
	}
	var codes map[string]string
	if err := json.Unmarshal(raw, &codes); err != nil {
		return nil, fmt.Errorf("config: parsear tabla VAT %s: %w", path, err)
	}
	normalized := make(map[string]string, len(codes))
	for country, code := range codes {
		normalized[strings.ToUpper(country)] = code
	}
	return normalized, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
