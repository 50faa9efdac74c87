package workers

import (
	"context"
	"sync"

	"userpanel/internal/logger"
)

// UserSaved - событие о том, что пользователь был создан или обновлен
type UserSaved struct {
	UserID uint
}

// DetailSaver пересчитывает производные детали пользователя
type DetailSaver interface {
	SaveUserDetails(ctx context.Context, userID uint) error
}

// DetailWorker - фоновый воркер, который после каждого сохранения
// пользователя пересчитывает его детали. Каждое опубликованное событие
// обрабатывается ровно один раз, в том числе при остановке: отмена
// контекста переводит воркер в режим доработки очереди, а не обрывает ее.
// Сбой обработки одного события не влияет на остальные и никогда не
// прерывает основной запрос.
type DetailWorker struct {
	queue chan UserSaved
	wg    sync.WaitGroup
}

// NewDetailWorker создает воркер с буферизованной очередью событий
func NewDetailWorker(queueSize int) *DetailWorker {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &DetailWorker{
		queue: make(chan UserSaved, queueSize),
	}
}

// Publish ставит событие в очередь. Блокируется, если очередь заполнена.
// Нельзя вызывать после Stop
func (w *DetailWorker) Publish(userID uint) {
	w.wg.Add(1)
	w.queue <- UserSaved{UserID: userID}
}

// Start запускает цикл обработки. После отмены контекста воркер
// продолжает принимать и обрабатывать события до вызова Stop
func (w *DetailWorker) Start(ctx context.Context, saver DetailSaver) {
	go func() {
		logger.Info("detail worker started")
		for {
			select {
			case <-ctx.Done():
				// Дорабатываем очередь до закрытия, события не теряются
				for event := range w.queue {
					w.process(saver, event)
				}
				logger.Info("detail worker stopped")
				return
			case event, ok := <-w.queue:
				if !ok {
					logger.Info("detail worker stopped")
					return
				}
				w.process(saver, event)
			}
		}
	}()
}

// Обработка идет с фоновым контекстом: отмена контекста сервера
// не должна ронять запись уже опубликованных событий
func (w *DetailWorker) process(saver DetailSaver, event UserSaved) {
	defer w.wg.Done()

	err := saver.SaveUserDetails(context.Background(), event.UserID)
	logger.WorkerLog("detail_worker", "save_user_details", err)
}

// Wait блокируется, пока все опубликованные события не будут обработаны.
// Используется при остановке сервера и в тестах
func (w *DetailWorker) Wait() {
	w.wg.Wait()
}

// Stop закрывает очередь и завершает цикл обработки.
// Вызывается после того, как все публикующие закончили работу
func (w *DetailWorker) Stop() {
	close(w.queue)
}
