package remote

import (
	"encoding/json"

	"OfflinePlayer/model"
)

// MessageType 消息类型
type MessageType string

const (
	// 服务端 -> 页面
	MsgTypeRender       MessageType = "render"        // 渲染歌曲表格
	MsgTypeNowPlaying   MessageType = "now_playing"   // 正在播放
	MsgTypeMessage      MessageType = "message"       // 状态消息
	MsgTypeMessageClear MessageType = "message_clear" // 清除状态消息
	MsgTypeSeekMax      MessageType = "seek_max"      // 进度条最大值
	MsgTypeSeekPos      MessageType = "seek_pos"      // 进度条位置
	MsgTypeTime         MessageType = "time"          // 时间显示
	MsgTypeRepeatState  MessageType = "repeat_state"  // 循环按钮状态
	MsgTypeFormReset    MessageType = "form_reset"    // 清空表单
	MsgTypeConfirm      MessageType = "confirm"       // 确认框
	MsgTypeAudioOpen    MessageType = "audio_open"    // 创建音频元素
	MsgTypeAudioPlay    MessageType = "audio_play"
	MsgTypeAudioPause   MessageType = "audio_pause"
	MsgTypeAudioRelease MessageType = "audio_release"
	MsgTypeAudioVolume  MessageType = "audio_volume"
	MsgTypeAudioSeek    MessageType = "audio_seek"
	MsgTypePong         MessageType = "pong" // 心跳响应

	// 页面 -> 服务端
	MsgTypeLoad         MessageType = "load"
	MsgTypeSearch       MessageType = "search"
	MsgTypeAdd          MessageType = "add"
	MsgTypeUpdate       MessageType = "update"
	MsgTypeDelete       MessageType = "delete"
	MsgTypePlay         MessageType = "play"
	MsgTypePause        MessageType = "pause"
	MsgTypeNext         MessageType = "next"
	MsgTypePrev         MessageType = "prev"
	MsgTypeRepeat       MessageType = "repeat"
	MsgTypeVolume       MessageType = "volume"
	MsgTypeSeek         MessageType = "seek"
	MsgTypeKey          MessageType = "key"
	MsgTypeConfirmReply MessageType = "confirm_reply"
	MsgTypeAudioEvent   MessageType = "audio_event"
	MsgTypePing         MessageType = "ping" // 心跳
)

// WSMessage WebSocket 消息结构
type WSMessage struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

type renderData struct {
	Songs []model.Song `json:"songs"`
}

type textData struct {
	Text string `json:"text"`
}

type messageData struct {
	Text string `json:"text"`
	Tone string `json:"tone"`
}

type valueData struct {
	Value float64 `json:"value"`
}

type timeData struct {
	Current string `json:"current,omitempty"`
	Total   string `json:"total,omitempty"`
}

type repeatData struct {
	On bool `json:"on"`
}

// ConfirmData 确认框请求，页面以 confirm_reply 回复相同的 ID
type ConfirmData struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`
}

type ConfirmReplyData struct {
	ID string `json:"id"`
	OK bool   `json:"ok"`
}

// AudioOpenData 页面据此创建一个 Audio 元素
type AudioOpenData struct {
	Handle string  `json:"handle"`
	Src    string  `json:"src"`
	Volume float64 `json:"volume"`
}

type handleData struct {
	Handle string `json:"handle"`
}

type handleValueData struct {
	Handle string  `json:"handle"`
	Value  float64 `json:"value"`
}

// AudioEventData 页面上报的音频元素事件
type AudioEventData struct {
	Handle   string  `json:"handle"`
	Event    string  `json:"event"` // loadedmetadata, timeupdate, ended, error, play_rejected
	Duration float64 `json:"duration,omitempty"`
	Position float64 `json:"position,omitempty"`
	Error    string  `json:"error,omitempty"`
}

type searchData struct {
	Term string `json:"term"`
}

// SongFormData 表单字段全部是字符串，SongID 的转换交给控制器
type SongFormData struct {
	SongID   string `json:"SongID"`
	Title    string `json:"Title"`
	Artist   string `json:"Artist"`
	Album    string `json:"Album"`
	FilePath string `json:"FilePath"`
}

type updateData struct {
	ID int64 `json:"id"`
	SongFormData
}

type deleteData struct {
	ID int64 `json:"id"`
}

type playData struct {
	Index int `json:"index"`
}

type keyData struct {
	Code    string `json:"code"`
	InInput bool   `json:"inInput"`
}
