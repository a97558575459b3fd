package sys

// --- Message Constants ---

const (
	// --- Infrastructure & Lifecycle ---
	MsgConfigFailedToLoad    = "Failed to load config: %v"
	MsgConfigMissingToken    = "DISCORD_TOKEN is not set in .env file"
	MsgConfigInvalidGuild    = "invalid GUILD_ID: must be a valid Snowflake"
	MsgConfigInvalidChannel  = "invalid ANCHOR_CHANNEL_ID: must be a valid Snowflake"
	MsgConfigInvalidInterval = "invalid %s: must be a positive duration"
	MsgDatabaseInitSuccess   = "Database initialized successfully"
	MsgDatabaseTableError    = "Failed to create table: %w"
	MsgDatabasePragmaError   = "Failed to set pragma %s: %w"
	MsgDaemonStarting        = "Starting..."
	MsgBotStarting           = "Starting %s..."
	MsgBotReady              = "%s is ready! (ID: %s) (PID: %d) (Took: %dms)"
	MsgBotShutdown           = "Shutting down %s..."
	MsgBotKillingOld         = "Killing running instance... (PID: %d)"
	MsgBotOldTerminated      = "Old instance terminated."
	MsgBotRegisterFail       = "Command registration failed: %v"
	MsgGenericError          = "%v"
	MsgLogFile               = "Writing logs to %s"

	// --- Command Loader & Registry ---
	MsgLoaderSyncCommands       = "Syncing %s commands..."
	MsgLoaderUpToDate           = "Commands are up to date. (Hash: %s)"
	MsgLoaderCleanup            = "[CLEANUP] Removing commands from previous dev guild: %s"
	MsgLoaderDevStarting        = "[DEV] Registering commands to guild: %s"
	MsgLoaderDevRegistered      = "[DEV] Registered: %s"
	MsgLoaderDevFail            = "[DEV] Registration failed: %v"
	MsgLoaderDevGlobalClear     = "[DEV] Verifying global commands are cleared..."
	MsgLoaderDevGlobalClearFail = "[DEV] Global clear skipped (likely rate limited): %v"
	MsgLoaderProdStarting       = "[PROD] Registering commands globally..."
	MsgLoaderProdRegistered     = "[PROD] Registered: %s"
	MsgLoaderProdFail           = "[PROD] Global registration failed: %w"
	MsgLoaderScanStarting       = "[SCAN] Checking all guilds for ghost commands..."
	MsgLoaderScanCleared        = "[SCAN] Cleared ghost commands from: %s (%s)"
	MsgLoaderPanicRecovered     = "Panic recovered in handler: %v"

	// --- Role Catalog ---
	MsgCatalogEnsured       = "Fixed roles ready in guild %s (%d roles, %d created)"
	MsgCatalogCreated       = "Created role %s (%s) in guild %s"
	MsgCatalogAdopted       = "Found existing role %s (%s) in guild %s"
	MsgCatalogStale         = "Cached role %s (%s) no longer exists in guild %s"
	MsgCatalogInvalidated   = "Invalidated role %s in guild %s"
	MsgCatalogEnsureFail    = "Failed to ensure fixed roles in guild %s: %v"
	MsgCatalogStartupSkip   = "GUILD_ID not set, fixed roles will be provisioned on first use."
	MsgCustomRoleCreated    = "Created custom role %s (%s) in guild %s"
	MsgCustomRoleReused     = "Reusing custom role %s (%s) in guild %s"
	MsgCustomRoleRejected   = "Rejected custom role %q from user %s: %v"
	MsgAssignFail           = "Failed to add role %s to user %s: %v"
	MsgAssignBatchPartial   = "Game selection for user %s: %d added, %d failed"
	MsgProvisioningFailLog  = "Role provisioning failed for user %s: %v"
	MsgRouterRespondError   = "Failed to respond to interaction: %v"
	MsgRouterFollowUpError  = "Failed to send follow-up: %v"
	MsgRouterUnknownCommand = "Ignoring unknown command %q"
	MsgVoiceCallPosted      = "User %s called for players in voice channel %s"

	// --- Anchor Messages ---
	MsgAnchorPublished      = "Published %s selector in channel %s (message %s)"
	MsgAnchorAdopted        = "Adopted existing %s selector in channel %s (message %s)"
	MsgAnchorDrift          = "%s selector %s is missing from channel %s, republishing..."
	MsgAnchorPublishFail    = "Failed to publish %s selector in channel %s: %v"
	MsgAnchorDeleteFail     = "Failed to delete old %s selector %s: %v"
	MsgAnchorScanFail       = "Failed to scan channel %s for existing selectors: %v"
	MsgAnchorUnreachable    = "Channel %s is unreachable, skipping this pass: %v"
	MsgAnchorNoChannel      = "No anchor channel configured, skipping reconciliation."
	MsgAnchorSkipInFlight   = "Previous reconciliation still running, skipping tick."
	MsgAnchorInSync         = "Selectors in channel %s are in place."
	MsgAnchorNextCheck      = "Next reconciliation in %v"
	MsgAnchorChannelSaved   = "Anchor channel set to %s"
	MsgAnchorChannelLoadErr = "Failed to load anchor channel: %v"
	MsgAnchorShutdown       = "Shutting down Anchor Reconciler..."

	// --- Presence ---
	MsgPresenceUpdateFail = "Update failed: %v"
	MsgPresenceRotated    = "Status rotated to: \"%s\" (Next rotate in %v)"

	// --- User-facing: roles flow ---
	MsgTimezonePrompt       = "Please choose your timezone:"
	MsgTimezoneAnchor       = "**Pick your timezone**\nPress a button below to get your timezone role."
	MsgGamePrompt           = "Please choose any additional game roles (optional):"
	MsgGameAnchor           = "**Pick your games**\nSelect the games you play to get their roles."
	MsgGamePlaceholder      = "Select additional game roles (optional)"
	MsgRoleAssigned         = "You have been assigned the %s role."
	MsgRoleAlreadyHave      = "You already have the %s role."
	MsgGamesAssigned        = "Game roles added successfully! (%d new)"
	MsgCustomRoleAssigned   = "You have been given the custom role **%s**."
	MsgCustomRoleAlreadyHas = "You already have the custom role **%s**."
	MsgChannelSet           = "Selectors will live in <#%s>."
	MsgGameMessageSent      = "The game selector has been republished in <#%s>."

	// --- User-facing: voice call ---
	MsgVoiceCallTitle       = "%s in %s"
	MsgVoiceCallDescription = "User is in voice channel %s"
	MsgVoiceCallGame        = " and wants to play **%s**"
	MsgVoiceCallFooter      = "Summoned by %s"

	// --- User-facing: errors ---
	ErrCustomRoleEmpty         = "Please give the custom role a name."
	ErrCustomRoleTooLong       = "That name is too long. Custom roles can have at most %d characters."
	ErrCustomRoleTooManyDigits = "That name has too many numbers. Custom roles can contain at most %d digits."
	ErrCustomRoleProfane       = "Please refrain from using inappropriate language."
	ErrCustomRoleReserved      = "That name belongs to a role you cannot request."
	ErrCustomRoleRateLimited   = "You are requesting roles too quickly. Try again in a moment."
	ErrRoleProvisioningFailed  = "Something went wrong while setting up that role. Please try again later."
	ErrChannelNotConfigured    = "No selector channel is configured yet. Run `/channel` first."
	ErrChannelInvalid          = "Please pick a text channel."
	ErrChannelSaveFailed       = "Could not save the selector channel. Please try again."
	ErrWrongGuild              = "Selectors are managed in another server."
	ErrChannelPublishFailed    = "The channel was saved, but the selectors could not be posted. Check my permissions there."
	ErrGameMessageFailed       = "Could not post a new game selector. Check my permissions in the selector channel."
	ErrNotInVoice              = "You are not in a voice channel!"
	ErrGuildOnly               = "This command can only be used in a server."
)
