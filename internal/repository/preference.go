package repository

import "context"

// PreferenceRepository は名前空間ごとのキー・バリューを永続化します
// セッション情報の保存先として使います
type PreferenceRepository interface {
	// Get はキーの値を返します。存在しない場合は ok=false です
	Get(ctx context.Context, namespace, key string) (value string, ok bool, err error)
	// Put は複数のキーをまとめて書き込みます。一部だけ反映されることはありません
	Put(ctx context.Context, namespace string, values map[string]string) error
	// Delete は指定したキーを削除します。存在しないキーは無視します
	Delete(ctx context.Context, namespace string, keys ...string) error
	// Clear は名前空間のすべてのキーを削除します
	Clear(ctx context.Context, namespace string) error
}
