package model

import "strings"

// TimeSlot は予約枠の時間帯を表します
// StartTime / EndTime は "HH:MM"（秒付きの "HH:MM:SS" も許容）の24時間表記です
type TimeSlot struct {
	ID        int64  `json:"id"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Table はテーブル情報です
type Table struct {
	ID          int64 `json:"id,omitempty"`
	TableNumber int   `json:"tableNumber"`
	Capacity    int   `json:"capacity"`
}

// Reservation は日付と予約枠を結びつけた予約です
// 1つの予約に複数の注文がぶら下がるのが通常の利用形態です
type Reservation struct {
	ID       int64     `json:"id"`
	Date     string    `json:"date"` // YYYY-MM-DD
	TimeSlot *TimeSlot `json:"timeSlot,omitempty"`
	Table    *Table    `json:"table,omitempty"`
}

// HasSlotFields は日付と開始・終了時刻がすべて埋まっているかを返します
// 書式の正しさまでは確認しません
func (r *Reservation) HasSlotFields() bool {
	if r == nil || r.TimeSlot == nil {
		return false
	}
	return strings.TrimSpace(r.Date) != "" &&
		strings.TrimSpace(r.TimeSlot.StartTime) != "" &&
		strings.TrimSpace(r.TimeSlot.EndTime) != ""
}

// TableNumber はテーブル番号を返します。未割当の場合は0です
func (r *Reservation) TableNumber() int {
	if r == nil || r.Table == nil {
		return 0
	}
	return r.Table.TableNumber
}
