// Package poster реализует файловое хранилище постеров на локальном диске.
// Ключом служит имя файла; дубликаты имён отклоняются на уровне создания
// файла (O_EXCL), так что гонка "проверил-записал" не может затереть
// параллельную загрузку.
package poster

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Ошибки файлового хранилища.
var (
	// ErrFileExists — файл с таким именем уже существует.
	ErrFileExists = errors.New("file already exists")
	// ErrFileNotFound — файла с таким именем нет.
	ErrFileNotFound = errors.New("file not found")
	// ErrEmptyFile — попытка сохранить пустой файл.
	ErrEmptyFile = errors.New("file is empty")
)

// Store хранит постеры в каталоге dir.
type Store struct {
	dir string
}

// NewStore создаёт каталог хранилища, если его нет.
func NewStore(dir string) (*Store, error) {
	const op = "poster.NewStore"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{dir: dir}, nil
}

// Dir возвращает каталог хранилища.
func (s *Store) Dir() string { return s.dir }

// Save записывает data под именем filename и возвращает использованное имя.
// Пустое содержимое отклоняется с ErrEmptyFile, занятое имя — с ErrFileExists.
func (s *Store) Save(filename string, data []byte) (string, error) {
	const op = "poster.Save"
	if len(data) == 0 {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyFile)
	}
	name := filepath.Base(filename)

	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return "", fmt.Errorf("%s: %w", op, ErrFileExists)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(filepath.Join(s.dir, name))
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return name, nil
}

// Exists сообщает, занято ли имя filename.
func (s *Store) Exists(filename string) bool {
	_, err := os.Stat(filepath.Join(s.dir, filepath.Base(filename)))
	return err == nil
}

// Delete удаляет файл. Отсутствующее имя — ошибка ErrFileNotFound;
// этим путём пользуется замена постера при обновлении фильма.
func (s *Store) Delete(filename string) error {
	const op = "poster.Delete"
	err := os.Remove(filepath.Join(s.dir, filepath.Base(filename)))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", op, ErrFileNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemoveIfPresent удаляет файл, молча пропуская отсутствующее имя.
// Используется при удалении фильма.
func (s *Store) RemoveIfPresent(filename string) error {
	const op = "poster.RemoveIfPresent"
	err := os.Remove(filepath.Join(s.dir, filepath.Base(filename)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Path возвращает путь файла внутри хранилища. filepath.Base защищает
// от выхода за пределы каталога через имя файла.
func (s *Store) Path(filename string) string {
	return filepath.Join(s.dir, filepath.Base(filename))
}
