package internal

type Message[T any] struct {
	Type string `json:"type"`
	Data T      `json:"data"`
}

// Inbound message types
const (
	MsgCreateRoom     = "create-room"
	MsgJoinRoom       = "join-room"
	MsgUpdateSettings = "update-settings"
	MsgStartGame      = "start-game"
	MsgEmojiUpdate    = "emoji-update"
	MsgGuess          = "guess"
	MsgReturnToLobby  = "return-to-lobby"
	MsgLeaveRoom      = "leave-room"
	MsgKick           = "kick"
)

// Outbound message types
const (
	MsgConnected = "connected"
	MsgAck       = "ack"
	MsgRoomState = "room-state"
	MsgError     = "error-msg"
	MsgKicked    = "kicked"
	MsgLeft      = "left"
)

type CreateRoomData struct {
	PlayerName string `json:"player_name"`
}

type JoinRoomData struct {
	Code       string `json:"code"`
	PlayerName string `json:"player_name"`
}

type UpdateSettingsData struct {
	RoundsPerPlayer int `json:"rounds_per_player,omitempty"`
	TurnDuration    int `json:"turn_duration,omitempty"`
}

type EmojiUpdateData struct {
	Emojis []string `json:"emojis"`
}

type GuessData struct {
	Text string `json:"text"`
}

type KickData struct {
	TargetID string `json:"target_id"`
}

type ConnectedData struct {
	PlayerID string `json:"player_id"`
}

type AckData struct {
	Action string `json:"action"`
	Code   string `json:"code,omitempty"`
}

type ErrorData struct {
	Message string `json:"message"`
}
