package utility

import (
	"bytes"
	"encoding/json"
)

// JSONIndent là khoảng thụt lề khi ghi file JSON (4 dấu cách)
const JSONIndent = "    "

// PrettyJSON trả về JSON thụt lề 4 dấu cách, không escape HTML (nội dung tin tức có thể chứa HTML)
func PrettyJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", JSONIndent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ReindentJSON định dạng lại JSON thô với thụt lề 4 dấu cách, giữ nguyên thứ tự key
func ReindentJSON(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", JSONIndent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
