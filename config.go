package main

const ENV_TELEGRAM_BOT_TOKEN = "telegram_bot_token"
const ENV_ALERT_CHAT_ID = "alert_chat_id"
const ENV_PROXY_DSN = "proxy_dsn"
const ENV_RULES_CONFIG_PATH = "rules_config_path"
const ENV_LOGGING_DATABASE_PATH = "logging_database_path"

const DEFAULT_RULES_PATH = "config.yml"

// Match kind constants, also stored in the event log.
const MATCH_KIND_PRODUCT = "product"
const MATCH_KIND_STORE = "store"
const MATCH_KIND_NONE = "none"
